package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teleboot/teleboot/pkg/codec"
	"github.com/teleboot/teleboot/pkg/models"
)

// Now returns the current UTC time at the precision every supported store keeps.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// CreateTestUser creates a test User with default values that can be overridden.
// The ID is left zero so the store can assign it.
func CreateTestUser(email string, overrides ...func(*models.User)) *models.User {
	now := Now()

	user := &models.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: "$2a$10$not-a-real-hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	for _, override := range overrides {
		override(user)
	}

	return user
}

// CreateTestBot creates a test Bot owned by userID.
func CreateTestBot(userID int64, overrides ...func(*models.Bot)) *models.Bot {
	now := Now()

	bot := &models.Bot{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    userID,
		Name:      "Test Bot",
		IsActive:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, override := range overrides {
		override(bot)
	}

	return bot
}

// CreateTestFlowRecord creates a persisted-form flow for botID holding the test graph.
func CreateTestFlowRecord(botID string, overrides ...func(*models.FlowRecord)) *models.FlowRecord {
	now := Now()

	flowData, err := codec.Encode(CreateTestGraph())
	if err != nil {
		panic(fmt.Sprintf("encode test graph: %v", err))
	}

	flow := &models.FlowRecord{
		ID:        uuid.Must(uuid.NewV7()).String(),
		BotID:     botID,
		Name:      "Test Flow",
		FlowData:  flowData,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, override := range overrides {
		override(flow)
	}

	return flow
}

// CreateTestTemplateRecord creates a persisted-form public template holding the start-only graph.
func CreateTestTemplateRecord(name string, overrides ...func(*models.TemplateRecord)) *models.TemplateRecord {
	flowData, err := codec.Encode(CreateStartOnlyGraph())
	if err != nil {
		panic(fmt.Sprintf("encode start graph: %v", err))
	}

	template := &models.TemplateRecord{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Name:      name,
		Category:  "Testing",
		FlowData:  flowData,
		IsPublic:  true,
		CreatedAt: Now(),
	}

	for _, override := range overrides {
		override(template)
	}

	return template
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
