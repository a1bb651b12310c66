package push

import (
	"sync"
	"time"
)

// DeadLetter holds a push payload the listener could not decode.
type DeadLetter struct {
	ID         string
	Payload    []byte
	Reason     string
	ReceivedAt time.Time
}

// DeadLetterBuffer is a bounded in-memory capture of undecodable push
// events. The stream is committed past them; this buffer is what remains
// for inspection.
type DeadLetterBuffer struct {
	mu         sync.RWMutex
	letters    []DeadLetter
	maxLetters int
}

func NewDeadLetterBuffer() *DeadLetterBuffer {
	return &DeadLetterBuffer{
		maxLetters: 1000,
	}
}

func (b *DeadLetterBuffer) Add(letter DeadLetter) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.letters) >= b.maxLetters {
		b.letters = b.letters[100:]
	}
	b.letters = append(b.letters, letter)
}

func (b *DeadLetterBuffer) Letters() []DeadLetter {
	b.mu.RLock()
	defer b.mu.RUnlock()

	lettersCopy := make([]DeadLetter, len(b.letters))
	copy(lettersCopy, b.letters)
	return lettersCopy
}
