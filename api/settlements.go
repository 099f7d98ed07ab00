package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/sangeeta2003/BillBuddy/ledger"
	"github.com/sangeeta2003/BillBuddy/notify"
)

type createSettlementRequest struct {
	PaidBy  string  `json:"paid_by"`
	PaidTo  string  `json:"paid_to"`
	Amount  float64 `json:"amount"`
	GroupID string  `json:"group_id,omitempty"`
}

type settlementsResponse struct {
	Total       int                 `json:"total"`
	Settlements []ledger.Settlement `json:"settlements"`
}

// postSettlements appends a settlement record. The record is immutable and
// is the only debt-reduction mechanism; no expense is touched. No upper
// bound is checked against the outstanding debt: overpaying is accepted
// and pushes the payer's net the other way.
func (api *API) postSettlements(w http.ResponseWriter, r *http.Request, userID string) {
	dbh := api.db.Connect()
	defer dbh.Close()

	var req createSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "unable to decode and parse json")
		return
	}

	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "validation", "amount must be positive")
		return
	}

	paidBy, err := parseID(req.PaidBy)
	if err != nil {
		respondError(w, err)
		return
	}
	paidTo, err := parseID(req.PaidTo)
	if err != nil {
		respondError(w, err)
		return
	}
	if paidBy == paidTo {
		writeError(w, http.StatusBadRequest, "validation", "payer and payee must be distinct")
		return
	}

	groupID := ""
	if req.GroupID != "" {
		if groupID, err = parseID(req.GroupID); err != nil {
			respondError(w, err)
			return
		}
		if _, err := dbh.GetGroup(groupID); err != nil {
			respondError(w, err)
			return
		}
	}

	refs, err := lookupRefs(dbh, []string{paidBy, paidTo})
	if err != nil {
		respondError(w, err)
		return
	}
	payer, payee := refs[0], refs[1]

	settlement := ledger.Settlement{
		PaidBy:  payer,
		PaidTo:  payee,
		Amount:  req.Amount,
		GroupID: groupID,
	}
	if err := dbh.CreateSettlement(&settlement); err != nil {
		respondError(w, err)
		return
	}

	slog.Info("Recorded settlement",
		"settlement_id", settlement.ID,
		"paid_by", payer.ID,
		"paid_to", payee.ID,
		"amount", settlement.Amount,
	)

	// Best-effort fanout to the payee
	message := fmt.Sprintf("%s settled %.2f with you", payer.Name, settlement.Amount)
	if _, err := dbh.CreateNotification(payee.ID, "settlement", message); err != nil {
		slog.Warn("Failed to store notification", "user_id", payee.ID, "error", err)
	}
	api.sink.Notify(payee.ID, notify.Message{Type: "settlement", Message: message, Time: time.Now().UTC()})

	writeJSON(w, http.StatusCreated, settlement)
}

// getSettlements returns the authenticated user's settlement history,
// newest first
func (api *API) getSettlements(w http.ResponseWriter, r *http.Request, userID string) {
	dbh := api.db.Connect()
	defer dbh.Close()

	settlements, err := dbh.GetSettlementsByUser(userID)
	if err != nil {
		respondError(w, err)
		return
	}

	sortSettlementsNewestFirst(settlements)
	writeJSON(w, http.StatusOK, settlementsResponse{Total: len(settlements), Settlements: settlements})
}

// getGroupSettlements returns a group's settlement history, newest first
func (api *API) getGroupSettlements(w http.ResponseWriter, r *http.Request, userID string) {
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

	settlements, err := dbh.GetSettlementsByGroup(groupID)
	if err != nil {
		respondError(w, err)
		return
	}

	sortSettlementsNewestFirst(settlements)
	writeJSON(w, http.StatusOK, settlementsResponse{Total: len(settlements), Settlements: settlements})
}

func sortSettlementsNewestFirst(settlements []ledger.Settlement) {
	sort.SliceStable(settlements, func(i, j int) bool {
		if settlements[i].CreatedAt.Equal(settlements[j].CreatedAt) {
			return settlements[i].ID < settlements[j].ID
		}
		return settlements[i].CreatedAt.After(settlements[j].CreatedAt)
	})
}
