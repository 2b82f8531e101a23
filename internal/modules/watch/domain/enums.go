//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// LoopState represents the lifecycle state of the poll loop
// ENUM(idle,running)
type LoopState string
