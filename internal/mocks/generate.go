// Package mocks holds gomock doubles for the grading repository.
//
// Regenerate after interface changes:
//
//	go generate ./internal/mocks
package mocks

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=repository_mock.go github.com/nala-edu/ai-grader/internal/data/repos/grading Repository
