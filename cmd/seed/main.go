// Seeds the message store with fake conversations for local development.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"revjobs-messaging/internal/config"
	"revjobs-messaging/internal/model"
	"revjobs-messaging/internal/repository"
	"revjobs-messaging/pkg/postgres"
)

const (
	userCount           = 10
	messagesPerPair     = 8
	conversationAgeDays = 14
)

func main() {
	ctx := context.Background()

	cfg := config.MustLoadConfig()

	db, err := postgres.New(&postgres.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
		Migration: postgres.Migration{
			Path:      cfg.Database.Migration.Path,
			AutoApply: cfg.Database.Migration.AutoApply,
		},
	})
	if err != nil {
		panic(err)
	}
	defer db.Close()

	repo := repository.NewMessageRepository(db.Pool())

	total := 0

	for sender := int64(1); sender <= userCount; sender++ {
		for receiver := sender + 1; receiver <= userCount; receiver++ {
			messages := fakeConversation(sender, receiver)

			if err := repo.SaveAll(ctx, nil, messages); err != nil {
				panic(fmt.Errorf("failed to seed conversation %d<->%d: %w", sender, receiver, err))
			}

			total += len(messages)
		}
	}

	fmt.Printf("seeded %d messages across %d users\n", total, userCount)
}

func fakeConversation(userA, userB int64) []*model.Message {
	messages := make([]*model.Message, 0, messagesPerPair)

	sentAt := time.Now().UTC().AddDate(0, 0, -conversationAgeDays)

	var applicationID *int64
	if gofakeit.Bool() {
		id := int64(gofakeit.Number(1, 500))
		applicationID = &id
	}

	for i := 0; i < messagesPerPair; i++ {
		sender, receiver := userA, userB
		if i%2 == 1 {
			sender, receiver = userB, userA
		}

		sentAt = sentAt.Add(time.Duration(rand.Intn(120)+1) * time.Minute)

		messages = append(messages, &model.Message{
			SenderID:      sender,
			ReceiverID:    receiver,
			Content:       gofakeit.Sentence(gofakeit.Number(4, 15)),
			IsRead:        gofakeit.Bool(),
			SentAt:        model.NewTimestamp(sentAt),
			ApplicationID: applicationID,
		})
	}

	return messages
}
