package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

const LoanTopic = "loan-events"

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS"`
}

type EventType string

const (
	EventCheckout EventType = "CHECKOUT"
	EventReturn   EventType = "RETURN"
	EventDelete   EventType = "DELETE"
)

// LoanEvent is published for every ledger mutation and consumed by the
// surrounding stats collaborator.
type LoanEvent struct {
	Timestamp time.Time `json:"timestamp"`
	LoanUid   string    `json:"loanUid"`
	PersonID  int       `json:"personId"`
	BookID    int       `json:"bookId"`
	EventType EventType `json:"eventType"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}
