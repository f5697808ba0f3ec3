package token

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque contest tokens handed to contestants at
// registration.
type Generator interface {
	NewToken() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return id.String(), nil
}
