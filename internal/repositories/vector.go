package repositories

import "github.com/pgvector/pgvector-go"

func pgVector(values []float32) *pgvector.Vector {
	v := pgvector.NewVector(values)
	return &v
}
