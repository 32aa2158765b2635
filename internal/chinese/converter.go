// Package chinese holds text helpers for Chinese poetry: simplified/traditional
// conversion, whitespace normalization and stable identifiers.
package chinese

import (
	"fmt"
	"sync"

	"github.com/liuzl/gocc"
)

var (
	s2t     *gocc.OpenCC // Simplified to Traditional
	t2s     *gocc.OpenCC // Traditional to Simplified
	initErr error
	once    sync.Once
)

func converters() error {
	once.Do(func() {
		s2t, initErr = gocc.New("s2t")
		if initErr != nil {
			initErr = fmt.Errorf("failed to initialize s2t converter: %w", initErr)
			return
		}
		t2s, initErr = gocc.New("t2s")
		if initErr != nil {
			initErr = fmt.Errorf("failed to initialize t2s converter: %w", initErr)
		}
	})
	return initErr
}

// ToTraditional converts simplified Chinese to traditional Chinese
func ToTraditional(text string) (string, error) {
	if text == "" {
		return "", nil
	}
	if err := converters(); err != nil {
		return "", err
	}
	return s2t.Convert(text)
}

// ToSimplified converts traditional Chinese to simplified Chinese
func ToSimplified(text string) (string, error) {
	if text == "" {
		return "", nil
	}
	if err := converters(); err != nil {
		return "", err
	}
	return t2s.Convert(text)
}

// LinesToTraditional converts every line, keeping nil as nil so absent
// blocks stay absent.
func LinesToTraditional(lines []string) ([]string, error) {
	if lines == nil {
		return nil, nil
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		converted, err := ToTraditional(line)
		if err != nil {
			return nil, fmt.Errorf("failed to convert line %d: %w", i, err)
		}
		out[i] = converted
	}
	return out, nil
}

// LinesToSimplified converts every line to simplified Chinese, keeping nil
// as nil.
func LinesToSimplified(lines []string) ([]string, error) {
	if lines == nil {
		return nil, nil
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		converted, err := ToSimplified(line)
		if err != nil {
			return nil, fmt.Errorf("failed to convert line %d: %w", i, err)
		}
		out[i] = converted
	}
	return out, nil
}
