package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sangeeta2003/BillBuddy/database"
)

type createGroupRequest struct {
	Name        string   `json:"groupname"`
	Description string   `json:"description,omitempty"`
	Members     []string `json:"members"`
}

type addMembersRequest struct {
	Members []string `json:"members"`
}

// postGroups creates a group. The authenticated creator is always
// included as a member.
func (api *API) postGroups(w http.ResponseWriter, r *http.Request, userID string) {
	dbh := api.db.Connect()
	defer dbh.Close()

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "unable to decode and parse json")
		return
	}

	if len(req.Name) < 3 {
		writeError(w, http.StatusBadRequest, "validation", "groupname must be at least 3 characters")
		return
	}

	memberIDs, err := parseIDs(req.Members)
	if err != nil {
		respondError(w, err)
		return
	}
	if _, err := lookupRefs(dbh, memberIDs); err != nil {
		respondError(w, err)
		return
	}

	group, err := dbh.CreateGroup(req.Name, req.Description, userID, memberIDs)
	if err != nil {
		respondError(w, err)
		return
	}

	slog.Info("Created group", "group_id", group.ID, "groupname", group.Name, "members", len(group.Members))
	writeJSON(w, http.StatusCreated, group)
}

// getGroups returns all groups with members hydrated
func (api *API) getGroups(w http.ResponseWriter, r *http.Request, userID string) {
	dbh := api.db.Connect()
	defer dbh.Close()

	groups, err := dbh.GetGroups()
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// addGroupMembers adds users to a group, skipping those already present.
// Adding only already-present members is rejected.
func (api *API) addGroupMembers(w http.ResponseWriter, r *http.Request, userID string) {
	groupID, err := parseID(r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}

	var req addMembersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "unable to decode and parse json")
		return
	}
	if len(req.Members) == 0 {
		writeError(w, http.StatusBadRequest, "validation", "at least one member is required")
		return
	}

	memberIDs, err := parseIDs(req.Members)
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
	if _, err := lookupRefs(dbh, memberIDs); err != nil {
		respondError(w, err)
		return
	}

	newMembers := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		if !groupHasMember(group, id) {
			newMembers = append(newMembers, id)
		}
	}
	if len(newMembers) == 0 {
		writeError(w, http.StatusBadRequest, "validation", "all members are already in the group")
		return
	}

	updated, err := dbh.AddGroupMembers(groupID, newMembers)
	if err != nil {
		respondError(w, err)
		return
	}

	slog.Info("Added group members", "group_id", groupID, "added", len(newMembers))
	writeJSON(w, http.StatusOK, updated)
}

func groupHasMember(group database.Group, userID string) bool {
	for _, m := range group.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}
