package api

import (
	"net/http"

	"github.com/sangeeta2003/BillBuddy/ledger"
)

type activityResponse struct {
	Activities []ledger.Activity `json:"activities"`
}

// getActivity returns the authenticated user's merged feed of expenses and
// settlements, newest first. The feed is rebuilt from the stored events on
// every request.
func (api *API) getActivity(w http.ResponseWriter, r *http.Request, userID string) {
	dbh := api.db.Connect()
	defer dbh.Close()

	expenses, err := dbh.GetExpensesByParticipant(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	settlements, err := dbh.GetSettlementsByUser(userID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, activityResponse{Activities: ledger.BuildTimeline(expenses, settlements)})
}

// getGroupActivity returns a group's merged feed of expenses and
// settlements, newest first
func (api *API) getGroupActivity(w http.ResponseWriter, r *http.Request, userID string) {
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

	expenses, err := dbh.GetExpensesByGroup(groupID)
	if err != nil {
		respondError(w, err)
		return
	}
	settlements, err := dbh.GetSettlementsByGroup(groupID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, activityResponse{Activities: ledger.BuildTimeline(expenses, settlements)})
}
