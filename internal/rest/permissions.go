package rest

import "gestionale/pkg/models"

// One capability table instead of role-string checks scattered per handler.
// Reads are open to every authenticated role unless listed here.
const (
	ActionUsersManage     = "users.manage"
	ActionClientsWrite    = "clients.write"
	ActionProjectsWrite   = "projects.write"
	ActionContractsWrite  = "contracts.write"
	ActionCandidatesRead  = "candidates.read"
	ActionCandidatesWrite = "candidates.write"
	ActionOnboardingStart = "onboarding.start"
	ActionTasksWrite      = "tasks.write"
	ActionEventsWrite     = "events.write"
	ActionPollsCreate     = "polls.create"
	ActionPollsOrganize   = "polls.organize"
)

var permissions = map[string][]string{
	ActionUsersManage:     {models.RoleAdmin},
	ActionClientsWrite:    {models.RoleAdmin, models.RoleManager},
	ActionProjectsWrite:   {models.RoleAdmin, models.RoleManager},
	ActionContractsWrite:  {models.RoleAdmin, models.RoleManager},
	ActionCandidatesRead:  {models.RoleAdmin, models.RoleManager},
	ActionCandidatesWrite: {models.RoleAdmin, models.RoleManager},
	ActionOnboardingStart: {models.RoleAdmin, models.RoleManager},
	ActionTasksWrite:      {models.RoleAdmin, models.RoleManager, models.RoleStaff},
	ActionEventsWrite:     {models.RoleAdmin, models.RoleManager, models.RoleStaff},
	ActionPollsCreate:     {models.RoleAdmin, models.RoleManager, models.RoleStaff},
	ActionPollsOrganize:   {models.RoleAdmin, models.RoleManager, models.RoleStaff},
}

func allowed(action, role string) bool {
	for _, r := range permissions[action] {
		if r == role {
			return true
		}
	}
	return false
}
