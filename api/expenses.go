package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sangeeta2003/BillBuddy/database"
	"github.com/sangeeta2003/BillBuddy/ledger"
	"github.com/sangeeta2003/BillBuddy/notify"
)

type createExpenseRequest struct {
	Title        string             `json:"title"`
	Amount       float64            `json:"amount"`
	PaidBy       string             `json:"paid_by"`
	Participants []string           `json:"participants"`
	SplitType    ledger.SplitType   `json:"split_type"`
	SplitDetails []ledger.RawDetail `json:"split_details,omitempty"`
	GroupID      string             `json:"group_id,omitempty"`
}

type updateSplitStatusRequest struct {
	Status ledger.SplitStatus `json:"status"`
}

// postExpenses adds an expense. The split is computed up front; the stored
// record is immutable apart from per-split status. Participants other than
// the payer are notified best-effort after the write.
func (api *API) postExpenses(w http.ResponseWriter, r *http.Request, userID string) {
	dbh := api.db.Connect()
	defer dbh.Close()

	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "unable to decode and parse json")
		return
	}

	if len(req.Title) < 3 {
		writeError(w, http.StatusBadRequest, "validation", "title must be at least 3 characters")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "validation", "amount must be positive")
		return
	}
	if len(req.Participants) == 0 {
		writeError(w, http.StatusBadRequest, "validation", "participants are required")
		return
	}

	paidBy, err := parseID(req.PaidBy)
	if err != nil {
		respondError(w, err)
		return
	}
	participantIDs, err := parseIDs(req.Participants)
	if err != nil {
		respondError(w, err)
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

	payerRefs, err := lookupRefs(dbh, []string{paidBy})
	if err != nil {
		respondError(w, err)
		return
	}
	payer := payerRefs[0]

	participants, err := lookupRefs(dbh, participantIDs)
	if err != nil {
		respondError(w, err)
		return
	}

	splitDetails, err := ledger.ComputeSplit(req.Amount, req.SplitType, participants, req.SplitDetails)
	if err != nil {
		respondError(w, err)
		return
	}

	expense := ledger.Expense{
		Title:        req.Title,
		Amount:       req.Amount,
		PaidBy:       payer,
		Participants: participants,
		SplitType:    req.SplitType,
		SplitDetails: splitDetails,
		GroupID:      groupID,
	}
	if err := dbh.CreateExpense(&expense); err != nil {
		respondError(w, err)
		return
	}

	slog.Info("Added expense",
		"expense_id", expense.ID,
		"title", expense.Title,
		"amount", expense.Amount,
		"paid_by", payer.ID,
		"participants", len(participants),
	)

	// Best-effort fanout; a failed notification never rolls back the write
	message := fmt.Sprintf("%s added a new expense: %s", payer.Name, expense.Title)
	for _, p := range participants {
		if p.ID == payer.ID {
			continue
		}
		if _, err := dbh.CreateNotification(p.ID, "expense", message); err != nil {
			slog.Warn("Failed to store notification", "user_id", p.ID, "error", err)
		}
		api.sink.Notify(p.ID, notify.Message{Type: "expense", Message: message, Time: time.Now().UTC()})
	}

	writeJSON(w, http.StatusCreated, expense)
}

// getExpenses returns all expenses, hydrated with user names and emails
func (api *API) getExpenses(w http.ResponseWriter, r *http.Request, userID string) {
	dbh := api.db.Connect()
	defer dbh.Close()

	expenses, err := dbh.GetExpenses()
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

// getExpense returns a single expense by id
func (api *API) getExpense(w http.ResponseWriter, r *http.Request, userID string) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}

	dbh := api.db.Connect()
	defer dbh.Close()

	expense, err := dbh.GetExpense(id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

// deleteExpense removes an expense. Balances are derived, so the deletion
// needs no recompute beyond removing the record's contribution.
func (api *API) deleteExpense(w http.ResponseWriter, r *http.Request, userID string) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}

	dbh := api.db.Connect()
	defer dbh.Close()

	if err := dbh.DeleteExpense(id); err != nil {
		respondError(w, err)
		return
	}

	slog.Info("Deleted expense", "expense_id", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "expense deleted"})
}

// updateSplitStatus marks the authenticated user's share of an expense as
// paid or unpaid
func (api *API) updateSplitStatus(w http.ResponseWriter, r *http.Request, userID string) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}

	var req updateSplitStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "unable to decode and parse json")
		return
	}
	if req.Status != ledger.StatusPaid && req.Status != ledger.StatusUnpaid {
		writeError(w, http.StatusBadRequest, "validation", "status must be paid or unpaid")
		return
	}

	dbh := api.db.Connect()
	defer dbh.Close()

	if err := dbh.UpdateSplitStatus(id, userID, req.Status); err != nil {
		if err == database.ErrNotFound {
			writeError(w, http.StatusNotFound, "not_found", "expense or split entry not found")
			return
		}
		respondError(w, err)
		return
	}

	expense, err := dbh.GetExpense(id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}
