package env

import (
	"fmt"
	"io"

	"github.com/joho/godotenv"
)

// Dotenv reads KEY=VALUE property files. Later files override earlier ones.
func Dotenv(paths ...string) (Map, error) {
	result := Map{}

	for _, path := range paths {
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("reading properties from %s: %w", path, err)
		}

		for k, v := range values {
			result[k] = v
		}
	}

	return result, nil
}

// ParseDotenv parses KEY=VALUE properties from r.
func ParseDotenv(r io.Reader) (Map, error) {
	values, err := godotenv.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing properties: %w", err)
	}

	return values, nil
}
