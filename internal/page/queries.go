package page

// PoemQuery fetches everything the poem page shows, keyed by uuid
const PoemQuery = `query POEM ($uuid: ID!) {
  poem (uuid: $uuid) {
    id
    uuid
    title
    intro
    paragraphs
    appreciation
    translation
    kind
    annotations
    author {
      name
      dynasty
      birthYear
      deathYear
      intro
    }
  }
}`

// PoemsQuery fetches one page of the poem list
const PoemsQuery = `query POEMS ($page: Int, $pageSize: Int) {
  poems (page: $page, pageSize: $pageSize) {
    edges {
      node {
        uuid
        title
        author {
          name
          dynasty
        }
      }
    }
    pageInfo {
      hasNextPage
      hasPreviousPage
    }
    totalCount
  }
}`
