package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/store"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.ConversationRepository())
	assert.NotNil(t, uow.MessageRepository())
	assert.NotNil(t, uow.ProviderConfigRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Message Repository", func(t *testing.T) {
		count, err := uow.MessageRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Message count: %d", count)
	})
}

func TestConversationStoreRoundTrip(t *testing.T) {
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	convStore := store.NewConversationStore(uowFactory)

	// Needs a real user row for the FK
	owner := &entity.User{
		Id:       uuid.New(),
		Email:    uuid.New().String() + "@integration.test",
		FullName: "Integration Test",
		Role:     "user",
		Status:   "active",
	}
	uow := uowFactory.NewUnitOfWork(ctx)
	require.NoError(t, uow.UserRepository().Create(ctx, owner))
	defer uow.UserRepository().Delete(ctx, owner.Id)

	conv, err := convStore.Create(ctx, owner.Id, "Integration conversation")
	require.NoError(t, err)
	defer convStore.Delete(ctx, conv.Id)

	// Append two turns and read the transcript back in order
	userMsg := &entity.Message{Id: uuid.New(), ConversationId: conv.Id, Role: "user", Content: "ping"}
	require.NoError(t, convStore.AppendMessage(ctx, conv.Id, userMsg))
	assistantMsg := &entity.Message{Id: uuid.New(), ConversationId: conv.Id, Role: "assistant", Content: "pong"}
	require.NoError(t, convStore.AppendMessage(ctx, conv.Id, assistantMsg))

	loaded, err := convStore.GetById(ctx, conv.Id, owner.Id)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, "ping", loaded.Messages[0].Content)
	assert.Equal(t, "pong", loaded.Messages[1].Content)
	assert.Less(t, loaded.Messages[0].Seq, loaded.Messages[1].Seq)

	// Owner scoping: someone else sees nothing
	foreign, err := convStore.GetById(ctx, conv.Id, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, foreign)
}
