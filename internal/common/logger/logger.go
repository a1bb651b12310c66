package logger

import "fmt"

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// Logger defines the interface for logging
type Logger interface {
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

type ConsoleLogger struct{}

func NewConsoleLogger() *ConsoleLogger {
	return &ConsoleLogger{}
}

// Info logs an info message
func (cl *ConsoleLogger) Info(msg string, fields ...Field) {
	printLine("[INFO] ", msg, fields)
}

// Warn logs a warning message
func (cl *ConsoleLogger) Warn(msg string, fields ...Field) {
	printLine("[WARN] ", msg, fields)
}

// Error logs an error message
func (cl *ConsoleLogger) Error(msg string, fields ...Field) {
	printLine("[ERROR] ", msg, fields)
}

func printLine(level, msg string, fields []Field) {
	fmt.Print(level + msg)
	if len(fields) > 0 {
		fmt.Print(" [")
		for i, f := range fields {
			if i > 0 {
				fmt.Print(", ")
			}
			fmt.Printf("%s=%v", f.Key, f.Value)
		}
		fmt.Print("]")
	}
	fmt.Println()
}
