package api

import (
	"encoding/json"
	"net/http"

	"github.com/sangeeta2003/BillBuddy/database"
)

type sendChatMessageRequest struct {
	Message string `json:"message"`
}

type chatMessagesResponse struct {
	Messages []database.ChatMessage `json:"messages"`
}

// postChatMessage stores a message in a group's chat history. Real-time
// delivery belongs to whatever subscribes to the notification channels;
// this endpoint only writes the durable record.
func (api *API) postChatMessage(w http.ResponseWriter, r *http.Request, userID string) {
	groupID, err := parseID(r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}

	var req sendChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "unable to decode and parse json")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "validation", "message must not be empty")
		return
	}

	dbh := api.db.Connect()
	defer dbh.Close()

	if _, err := dbh.GetGroup(groupID); err != nil {
		respondError(w, err)
		return
	}

	message, err := dbh.CreateChatMessage(groupID, userID, req.Message)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

// getChatMessages returns a group's chat history in insertion order
func (api *API) getChatMessages(w http.ResponseWriter, r *http.Request, userID string) {
	groupID, err := parseID(r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}

	dbh := api.db.Connect()
	defer dbh.Close()

	if _, err := dbh.GetGroup(groupID); err != nil {
		respondError(w, err)
		return
	}

	messages, err := dbh.GetChatMessages(groupID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatMessagesResponse{Messages: messages})
}
