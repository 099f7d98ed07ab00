package api

import (
	"net/http"

	"github.com/sangeeta2003/BillBuddy/database"
)

type notificationsResponse struct {
	Notifications []database.Notification `json:"notifications"`
}

// getNotifications returns the authenticated user's notifications, newest
// first
func (api *API) getNotifications(w http.ResponseWriter, r *http.Request, userID string) {
	dbh := api.db.Connect()
	defer dbh.Close()

	notifications, err := dbh.GetNotifications(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notificationsResponse{Notifications: notifications})
}

// markNotificationRead flags a notification as read
func (api *API) markNotificationRead(w http.ResponseWriter, r *http.Request, userID string) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}

	dbh := api.db.Connect()
	defer dbh.Close()

	if err := dbh.MarkNotificationRead(id); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "notification marked as read"})
}
