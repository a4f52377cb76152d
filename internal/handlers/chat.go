package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/workhive-id/workhive_be/internal/middleware"
	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/realtime"
	"github.com/workhive-id/workhive_be/internal/store"
	"github.com/workhive-id/workhive_be/internal/utils"
)

type ChatHandler struct {
	Chats     store.ChatStore
	Users     store.UserStore
	Hub       *realtime.Hub
	RDB       *redis.Client
	JWTSecret string
}

func NewChatHandler(chats store.ChatStore, users store.UserStore, hub *realtime.Hub, rdb *redis.Client, jwtSecret string) *ChatHandler {
	return &ChatHandler{Chats: chats, Users: users, Hub: hub, RDB: rdb, JWTSecret: jwtSecret}
}

// conversationPair orients a caller and counterpart onto the client and
// freelancer sides of a conversation, whichever of the two initiated it.
// ok is false when the roles do not form a client-freelancer pair.
func conversationPair(caller, other *models.User) (clientID, freelancerID uuid.UUID, ok bool) {
	switch {
	case caller.Role == models.RoleClient && other.Role == models.RoleFreelancer:
		return caller.ID, other.ID, true
	case caller.Role == models.RoleFreelancer && other.Role == models.RoleClient:
		return other.ID, caller.ID, true
	}
	return uuid.Nil, uuid.Nil, false
}

// CreateOrGetConversation opens the thread between a client and a
// freelancer, reusing an existing one when present. Either side may
// initiate; the stored orientation always follows the roles.
func (h *ChatHandler) CreateOrGetConversation(c *fiber.Ctx) error {
	u := middleware.Principal(c)
	if u == nil {
		return fiber.ErrUnauthorized
	}

	var req struct {
		ParticipantID string  `json:"participant_id"`
		ProjectID     *string `json:"project_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.ParticipantID == "" {
		return badBody(c)
	}

	participantID, err := uuid.Parse(req.ParticipantID)
	if err != nil {
		return invalidID(c)
	}

	var projectID *uuid.UUID
	if req.ProjectID != nil {
		pid, err := uuid.Parse(*req.ProjectID)
		if err != nil {
			return invalidID(c)
		}
		projectID = &pid
	}

	ctx := c.UserContext()
	other, err := h.Users.GetUser(ctx, participantID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}
	clientID, freelancerID, ok := conversationPair(u, other)
	if !ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"message": "Conversations are between a client and a freelancer",
		})
	}

	conv, err := h.Chats.FindConversation(ctx, clientID, freelancerID)
	created := false
	if errors.Is(err, store.ErrNotFound) {
		conv = &models.Conversation{
			ClientID:      clientID,
			FreelancerID:  freelancerID,
			ProjectID:     projectID,
			LastMessageAt: time.Now(),
		}
		if err := h.Chats.CreateConversation(ctx, conv); err != nil {
			log.Println("chat: create conversation failed:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to create conversation",
			})
		}
		created = true
	} else if err != nil {
		log.Println("chat: find conversation failed:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch conversation",
		})
	}

	return c.JSON(fiber.Map{"success": true, "created": created, "data": conv})
}

func (h *ChatHandler) GetConversations(c *fiber.Ctx) error {
	u := middleware.Principal(c)
	if u == nil {
		return fiber.ErrUnauthorized
	}
	convs, err := h.Chats.ListConversationsByUser(c.UserContext(), u.ID)
	if err != nil {
		log.Println("chat: list conversations failed:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch conversations",
		})
	}
	return c.JSON(fiber.Map{"success": true, "data": convs})
}

func (h *ChatHandler) GetUnreadTotal(c *fiber.Ctx) error {
	u := middleware.Principal(c)
	if u == nil {
		return fiber.ErrUnauthorized
	}
	count, err := h.Chats.CountUnread(c.UserContext(), u.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to count unread messages",
		})
	}
	return c.JSON(fiber.Map{"success": true, "data": count})
}

func (h *ChatHandler) conversationFor(c *fiber.Ctx, u *models.User) (*models.Conversation, error) {
	convID, ok := paramUUID(c, "id")
	if !ok {
		return nil, invalidID(c)
	}
	conv, err := h.Chats.GetConversation(c.UserContext(), convID)
	if err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Conversation not found",
		})
	}
	if !conv.HasParticipant(u.ID) {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Access denied",
		})
	}
	return conv, nil
}

// GetMessages returns the thread and marks the other side's messages read.
func (h *ChatHandler) GetMessages(c *fiber.Ctx) error {
	u := middleware.Principal(c)
	if u == nil {
		return fiber.ErrUnauthorized
	}
	conv, err := h.conversationFor(c, u)
	if conv == nil {
		return err
	}

	ctx := c.UserContext()
	messages, err := h.Chats.ListMessagesByConversation(ctx, conv.ID)
	if err != nil {
		log.Println("chat: list messages failed:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch messages",
		})
	}

	if err := h.Chats.MarkMessagesRead(ctx, conv.ID, u.ID); err != nil {
		log.Println("chat: mark read failed:", err)
	}

	return c.JSON(fiber.Map{"success": true, "data": messages})
}

func (h *ChatHandler) MarkAsRead(c *fiber.Ctx) error {
	u := middleware.Principal(c)
	if u == nil {
		return fiber.ErrUnauthorized
	}
	conv, err := h.conversationFor(c, u)
	if conv == nil {
		return err
	}
	if err := h.Chats.MarkMessagesRead(c.UserContext(), conv.ID, u.ID); err != nil {
		log.Println("chat: mark read failed:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to mark messages as read",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}

// SendMessage persists the message, then pushes it over the hub and a Redis
// notification for the recipient.
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	u := middleware.Principal(c)
	if u == nil {
		return fiber.ErrUnauthorized
	}
	conv, err := h.conversationFor(c, u)
	if conv == nil {
		return err
	}

	var req struct {
		Text   string  `json:"text"`
		Type   string  `json:"type"`
		FileID *string `json:"file_id"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Text is required",
		})
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       u.ID,
		Type:           "text",
		Text:           req.Text,
	}
	if req.Type == "file" && req.FileID != nil {
		if fid, err := uuid.Parse(*req.FileID); err == nil {
			msg.Type = "file"
			msg.FileID = &fid
		}
	}

	ctx := c.UserContext()
	if err := h.Chats.CreateMessage(ctx, msg); err != nil {
		log.Println("chat: create message failed:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to send message",
		})
	}
	if err := h.Chats.TouchConversation(ctx, conv.ID, msg.CreatedAt); err != nil {
		log.Println("chat: touch conversation failed:", err)
	}

	h.Hub.SendToConversation(conv.ClientID, conv.FreelancerID, fiber.Map{
		"type":    "new_message",
		"message": msg,
	})

	recipientID := conv.ClientID
	if u.ID == conv.ClientID {
		recipientID = conv.FreelancerID
	}
	notif := map[string]any{
		"type":            "chat_message",
		"conversation_id": conv.ID.String(),
		"sender_id":       u.ID.String(),
		"text":            req.Text,
	}
	payload, _ := json.Marshal(notif)
	h.RDB.Publish(context.Background(), "notifications:"+recipientID.String(), payload)

	return c.JSON(fiber.Map{"success": true, "data": msg})
}

// WebSocketHandler authenticates the socket from the session cookie and
// pumps hub messages down the wire.
func (h *ChatHandler) WebSocketHandler(c *websocket.Conn) {
	tokenStr := c.Cookies(middleware.CookieName)
	if tokenStr == "" {
		c.Close()
		return
	}
	claims, err := utils.ParseJWT(h.JWTSecret, tokenStr)
	if err != nil {
		c.Close()
		return
	}
	userUUID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.Close()
		return
	}

	client := &realtime.Client{
		ID:     uuid.New().String(),
		UserID: userUUID,
		Conn:   realtime.NewWebSocketConn(c),
		Send:   make(chan []byte, 256),
	}

	h.Hub.RegisterClient(client)
	defer h.Hub.UnregisterClient(client)

	go func() {
		for msg := range client.Send {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	for {
		var payload map[string]any
		if err := c.ReadJSON(&payload); err != nil {
			break
		}
		if msgType, ok := payload["type"].(string); ok && msgType == "pong" {
			continue
		}
	}
}
