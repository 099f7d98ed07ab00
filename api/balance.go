package api

import (
	"log/slog"
	"net/http"

	"github.com/sangeeta2003/BillBuddy/ledger"
)

type balanceResponse struct {
	UserID string `json:"user_id"`
	ledger.Balance
}

type groupSummaryResponse struct {
	GroupID   string             `json:"group_id"`
	GroupName string             `json:"groupname"`
	Balances  []ledger.MemberNet `json:"balances"`
}

// getBalance derives the authenticated user's balance from the stored
// expenses and settlements. Nothing is cached: the stored events are the
// only truth and recomputation is deterministic.
func (api *API) getBalance(w http.ResponseWriter, r *http.Request, userID string) {
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

	balance := ledger.ComputeUserBalance(userID, expenses, settlements)
	slog.Debug("Computed balance", "user_id", userID, "net", balance.Net)
	writeJSON(w, http.StatusOK, balanceResponse{UserID: userID, Balance: balance})
}

// getGroupSummary derives the aggregate net position of every group member
func (api *API) getGroupSummary(w http.ResponseWriter, r *http.Request, userID string) {
	groupID, err := parseID(r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}

	dbh := api.db.Connect()
	defer dbh.Close()

	group, err := dbh.GetGroup(groupID)
	if err != nil {
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

	summary := ledger.ComputeGroupSummary(group.Members, expenses, settlements)
	writeJSON(w, http.StatusOK, groupSummaryResponse{
		GroupID:   group.ID,
		GroupName: group.Name,
		Balances:  summary,
	})
}
