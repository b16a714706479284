package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/preventia/duerp-crm/internal/entity"
	"github.com/preventia/duerp-crm/internal/infra/http/middleware"
	"github.com/preventia/duerp-crm/internal/infra/storage"
)

type ChatHandler struct {
	messageRepo entity.MessageRepositoryInterface
	attachments *storage.AttachmentStore
}

func NewChatHandler(messageRepo entity.MessageRepositoryInterface, attachments *storage.AttachmentStore) *ChatHandler {
	return &ChatHandler{messageRepo: messageRepo, attachments: attachments}
}

func parseChannel(r *http.Request) (entity.Channel, error) {
	switch chi.URLParam(r, "channel") {
	case "client":
		return entity.ChannelClient, nil
	case "seller":
		return entity.ChannelSeller, nil
	}
	return "", errors.New("canal inconnu")
}

func parseConversationID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "conversationID"), 10, 64)
}

// ListMessages renvoie les messages d'une conversation. Le curseur ?since
// (RFC3339) limite la réponse aux messages postérieurs; absent, toute la
// conversation est renvoyée.
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ch, err := parseChannel(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_CHANNEL", err.Error())
		return
	}
	conversationID, err := parseConversationID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id de conversation invalide")
		return
	}

	since := time.Time{}
	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_CURSOR", "since doit être au format RFC3339")
			return
		}
	}

	messages, err := h.messageRepo.ListSince(r.Context(), ch, conversationID, since)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

type PostMessageRequest struct {
	SenderName string `json:"sender_name"`
	Body       string `json:"body"`
}

// PostMessage ajoute un message texte. L'expéditeur vient du token, le nom
// affiché est dénormalisé dans le message.
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	ch, err := parseChannel(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_CHANNEL", err.Error())
		return
	}
	conversationID, err := parseConversationID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id de conversation invalide")
		return
	}

	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", "session absente")
		return
	}

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if req.Body == "" {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "message vide")
		return
	}

	message := &entity.ChatMessage{
		ConversationID: conversationID,
		SenderID:       principal.ID,
		SenderKind:     principal.Kind,
		SenderName:     req.SenderName,
		Body:           req.Body,
		CreatedAt:      time.Now(),
	}

	if err := h.messageRepo.Append(r.Context(), ch, message); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, message)
}

// PostAttachment reçoit un multipart (champ "file"), pousse le fichier
// vers le bucket et ajoute le message porteur de la pièce jointe.
func (h *ChatHandler) PostAttachment(w http.ResponseWriter, r *http.Request) {
	if h.attachments == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "STORAGE_DISABLED", "le stockage des pièces jointes n'est pas configuré")
		return
	}

	ch, err := parseChannel(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_CHANNEL", err.Error())
		return
	}
	conversationID, err := parseConversationID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id de conversation invalide")
		return
	}

	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", "session absente")
		return
	}

	if err := r.ParseMultipartForm(storage.MaxAttachmentSize); err != nil {
		writeErrorResponse(w, http.StatusRequestEntityTooLarge, "ATTACHMENT_TOO_LARGE", err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FILE", "champ file absent")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxAttachmentSize+1))
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "READ_ERROR", err.Error())
		return
	}
	if len(data) > storage.MaxAttachmentSize {
		writeErrorResponse(w, http.StatusRequestEntityTooLarge, "ATTACHMENT_TOO_LARGE", storage.ErrAttachmentTooLarge.Error())
		return
	}

	mimeType := header.Header.Get("Content-Type")
	conversationKey := fmt.Sprintf("%s-%d", ch, conversationID)

	url, err := h.attachments.Upload(r.Context(), conversationKey, header.Filename, mimeType, data)
	if err != nil {
		middleware.RecordIntegrationError("storage")
		writeErrorResponse(w, http.StatusBadGateway, "STORAGE_ERROR", err.Error())
		return
	}

	message := &entity.ChatMessage{
		ConversationID: conversationID,
		SenderID:       principal.ID,
		SenderKind:     principal.Kind,
		SenderName:     r.FormValue("sender_name"),
		Body:           r.FormValue("body"),
		AttachmentURL:  url,
		AttachmentName: header.Filename,
		AttachmentMime: mimeType,
		CreatedAt:      time.Now(),
	}

	if err := h.messageRepo.Append(r.Context(), ch, message); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, message)
}

// MarkRead marque lus les messages de la conversation qui ne viennent pas
// du lecteur courant.
func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ch, err := parseChannel(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_CHANNEL", err.Error())
		return
	}
	conversationID, err := parseConversationID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id de conversation invalide")
		return
	}

	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", "session absente")
		return
	}

	if err := h.messageRepo.MarkConversationRead(r.Context(), ch, conversationID, principal.Kind); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteConversation purge tout l'historique d'une conversation.
func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	ch, err := parseChannel(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_CHANNEL", err.Error())
		return
	}
	conversationID, err := parseConversationID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id de conversation invalide")
		return
	}

	if err := h.messageRepo.DeleteConversation(r.Context(), ch, conversationID); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
