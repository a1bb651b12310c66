package push

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	defaultBrokerAddress = "localhost:19092"
	readTimeout          = 10 * time.Second
)

// KafkaStream consumes the shared entity-events topic. Messages are keyed
// by account so a session's consumer sees every event for its account.
type KafkaStream struct {
	brokers []string
	topic   string

	mu      sync.Mutex
	readers []*kafka.Reader
	running bool
}

// NewKafkaStream creates a stream for a topic.
// Uses KAFKA_BROKERS environment variable if set, otherwise defaults to localhost:19092.
// Multiple brokers can be specified as comma-separated: "broker1:9092,broker2:9092"
func NewKafkaStream(topic string) *KafkaStream {
	var brokers []string
	if brokersEnv := os.Getenv("KAFKA_BROKERS"); brokersEnv != "" {
		brokers = strings.Split(brokersEnv, ",")
		for i := range brokers {
			brokers[i] = strings.TrimSpace(brokers[i])
		}
	}
	if len(brokers) == 0 {
		brokers = []string{defaultBrokerAddress}
	}

	return &KafkaStream{
		brokers: brokers,
		topic:   topic,
		running: true,
	}
}

func (s *KafkaStream) Subscribe(ctx context.Context, groupID string, handler RawHandler) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return fmt.Errorf("stream is closed")
	}

	if groupID == "" {
		groupID = fmt.Sprintf("consumer-%s-%d", s.topic, time.Now().Unix())
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     s.brokers,
		Topic:       s.topic,
		GroupID:     groupID,
		MinBytes:    10e3,
		MaxBytes:    10e6,
		MaxWait:     1 * time.Second,
		StartOffset: kafka.LastOffset,
	})
	s.readers = append(s.readers, reader)
	s.mu.Unlock()

	go s.consume(ctx, reader, handler)

	return nil
}

func (s *KafkaStream) consume(ctx context.Context, reader *kafka.Reader, handler RawHandler) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if !running {
				return
			}

			readCtx, cancel := context.WithTimeout(ctx, readTimeout)
			message, err := reader.FetchMessage(readCtx)
			cancel()

			if err != nil {
				if err == context.DeadlineExceeded || err == context.Canceled {
					continue
				}
				fmt.Printf("Error fetching message: %v\n", err)
				time.Sleep(100 * time.Millisecond)
				continue
			}

			if err := handler(ctx, message.Value); err != nil {
				fmt.Printf("Error handling push event: %v\n", err)
			}

			// Commit regardless of handler outcome; undecodable payloads
			// are dead-lettered by the listener, not replayed.
			if err := reader.CommitMessages(ctx, message); err != nil {
				fmt.Printf("Error committing message: %v\n", err)
			}
		}
	}
}

func (s *KafkaStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = false

	var errs []error
	for _, reader := range s.readers {
		if err := reader.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing stream: %v", errs)
	}

	return nil
}
