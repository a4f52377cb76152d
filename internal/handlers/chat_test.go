package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/workhive-id/workhive_be/internal/models"
)

func chatUser(role models.Role) *models.User {
	return &models.User{ID: uuid.New(), Role: role, IsActive: true}
}

func TestConversationPairOrientation(t *testing.T) {
	cl := chatUser(models.RoleClient)
	fl := chatUser(models.RoleFreelancer)

	// the same pair resolves to one orientation no matter who initiates
	clientID, freelancerID, ok := conversationPair(cl, fl)
	assert.True(t, ok)
	assert.Equal(t, cl.ID, clientID)
	assert.Equal(t, fl.ID, freelancerID)

	clientID, freelancerID, ok = conversationPair(fl, cl)
	assert.True(t, ok)
	assert.Equal(t, cl.ID, clientID)
	assert.Equal(t, fl.ID, freelancerID)
}

func TestConversationPairRejectsSameRole(t *testing.T) {
	_, _, ok := conversationPair(chatUser(models.RoleClient), chatUser(models.RoleClient))
	assert.False(t, ok)

	_, _, ok = conversationPair(chatUser(models.RoleFreelancer), chatUser(models.RoleFreelancer))
	assert.False(t, ok)

	_, _, ok = conversationPair(chatUser(models.RoleAdmin), chatUser(models.RoleFreelancer))
	assert.False(t, ok)
}
