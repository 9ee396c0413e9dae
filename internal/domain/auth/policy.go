package auth

const (
	RoleAdmin       = "ADMIN"
	RoleGestor      = "GESTOR"
	RoleColaborador = "COLABORADOR"
)

var Roles = []string{RoleAdmin, RoleGestor, RoleColaborador}

type Action string

const (
	ActionFeedbackCreate      Action = "feedback.create"
	ActionFeedbackRead        Action = "feedback.read"
	ActionFeedbackUpdate      Action = "feedback.update"
	ActionFeedbackAcknowledge Action = "feedback.acknowledge"
	ActionFeedbackDelete      Action = "feedback.delete"
	ActionPlanManage          Action = "plan.manage"
	ActionPlanRead            Action = "plan.read"
	ActionItemWrite           Action = "item.write"
	ActionCheckinCreate       Action = "checkin.create"
	ActionSweepRun            Action = "sweep.run"
	ActionDashboardAdmin      Action = "dashboard.admin"
	ActionDashboardGestor     Action = "dashboard.gestor"
	ActionDirectoryRead       Action = "directory.read"
	ActionProfileRead         Action = "profile.read"
)

// Resource carries the ownership facts a policy decision needs. Zero value
// means the action is not tied to a particular record.
type Resource struct {
	ColaboradorID  string // subject collaborator
	GestorID       string // authoring manager
	GestorDiretoID string // subject's direct manager
	Confidencial   bool
}

// CanPerform is the single authorization decision point. Role checks are
// never made directly in handlers or services.
func CanPerform(actor UserContext, action Action, res Resource) bool {
	if actor.UserID == "" {
		return false
	}
	if actor.Role == RoleAdmin {
		return true
	}

	switch action {
	case ActionFeedbackCreate, ActionPlanManage, ActionSweepRun, ActionDashboardGestor:
		return actor.Role == RoleGestor
	case ActionFeedbackRead, ActionPlanRead:
		return canReadSubjectRecord(actor, res)
	case ActionFeedbackUpdate:
		return actor.Role == RoleGestor && actor.UserID == res.GestorID
	case ActionFeedbackAcknowledge:
		return actor.UserID == res.ColaboradorID
	case ActionItemWrite, ActionCheckinCreate:
		return isParticipant(actor, res)
	case ActionDirectoryRead:
		return true
	case ActionProfileRead:
		if actor.Role == RoleGestor {
			return true
		}
		return actor.UserID == res.ColaboradorID
	case ActionDashboardAdmin, ActionFeedbackDelete:
		return false
	}
	return false
}

func canReadSubjectRecord(actor UserContext, res Resource) bool {
	if isParticipant(actor, res) {
		return true
	}
	if res.Confidencial {
		// Confidential records are invisible outside the participants.
		return false
	}
	return actor.Role == RoleGestor && actor.UserID == res.GestorDiretoID
}

func isParticipant(actor UserContext, res Resource) bool {
	return actor.UserID == res.ColaboradorID || actor.UserID == res.GestorID
}

// ConcealFrom reports whether a denied record must look nonexistent to the
// actor. Confidential records never reveal their existence outside the
// participants.
func ConcealFrom(actor UserContext, res Resource) bool {
	if actor.Role == RoleAdmin {
		return false
	}
	return res.Confidencial && !isParticipant(actor, res)
}
