package auth

import "testing"

func TestCanPerformRoleGates(t *testing.T) {
	admin := UserContext{UserID: "u-admin", Role: RoleAdmin}
	gestor := UserContext{UserID: "u-gestor", Role: RoleGestor}
	colab := UserContext{UserID: "u-colab", Role: RoleColaborador}

	tests := []struct {
		name   string
		actor  UserContext
		action Action
		res    Resource
		want   bool
	}{
		{"admin can delete feedback", admin, ActionFeedbackDelete, Resource{}, true},
		{"gestor cannot delete feedback", gestor, ActionFeedbackDelete, Resource{GestorID: "u-gestor"}, false},
		{"colaborador cannot delete feedback", colab, ActionFeedbackDelete, Resource{ColaboradorID: "u-colab"}, false},
		{"gestor can create feedback", gestor, ActionFeedbackCreate, Resource{}, true},
		{"colaborador cannot create feedback", colab, ActionFeedbackCreate, Resource{}, false},
		{"author gestor can update", gestor, ActionFeedbackUpdate, Resource{GestorID: "u-gestor"}, true},
		{"other gestor cannot update", gestor, ActionFeedbackUpdate, Resource{GestorID: "u-other"}, false},
		{"subject can acknowledge", colab, ActionFeedbackAcknowledge, Resource{ColaboradorID: "u-colab"}, true},
		{"author cannot acknowledge", gestor, ActionFeedbackAcknowledge, Resource{GestorID: "u-gestor", ColaboradorID: "u-colab"}, false},
		{"gestor can run sweep", gestor, ActionSweepRun, Resource{}, true},
		{"colaborador cannot run sweep", colab, ActionSweepRun, Resource{}, false},
		{"colaborador cannot see admin dashboard", colab, ActionDashboardAdmin, Resource{}, false},
		{"gestor cannot see admin dashboard", gestor, ActionDashboardAdmin, Resource{}, false},
		{"anonymous denied everything", UserContext{}, ActionDirectoryRead, Resource{}, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := CanPerform(tc.actor, tc.action, tc.res); got != tc.want {
				t.Fatalf("CanPerform(%s) = %v, want %v", tc.action, got, tc.want)
			}
		})
	}
}

func TestCanPerformConfidentiality(t *testing.T) {
	res := Resource{
		ColaboradorID:  "u-colab",
		GestorID:       "u-author",
		GestorDiretoID: "u-direct",
		Confidencial:   true,
	}

	directManager := UserContext{UserID: "u-direct", Role: RoleGestor}
	if CanPerform(directManager, ActionFeedbackRead, res) {
		t.Fatal("direct manager must not read confidential feedback they did not author")
	}

	res.Confidencial = false
	if !CanPerform(directManager, ActionFeedbackRead, res) {
		t.Fatal("direct manager should read non-confidential feedback of their report")
	}

	author := UserContext{UserID: "u-author", Role: RoleGestor}
	subject := UserContext{UserID: "u-colab", Role: RoleColaborador}
	res.Confidencial = true
	if !CanPerform(author, ActionFeedbackRead, res) {
		t.Fatal("author must read confidential feedback")
	}
	if !CanPerform(subject, ActionFeedbackRead, res) {
		t.Fatal("subject must read confidential feedback")
	}

	other := UserContext{UserID: "u-nobody", Role: RoleColaborador}
	if CanPerform(other, ActionFeedbackRead, res) {
		t.Fatal("unrelated user must not read confidential feedback")
	}
}

func TestConcealFrom(t *testing.T) {
	res := Resource{ColaboradorID: "u-colab", GestorID: "u-author", Confidencial: true}

	if !ConcealFrom(UserContext{UserID: "u-nobody", Role: RoleGestor}, res) {
		t.Fatal("confidential record must look nonexistent to outsiders")
	}
	if ConcealFrom(UserContext{UserID: "u-colab", Role: RoleColaborador}, res) {
		t.Fatal("participants see the record, never a concealment")
	}
	if ConcealFrom(UserContext{UserID: "u-admin", Role: RoleAdmin}, res) {
		t.Fatal("admin is never concealed from")
	}

	res.Confidencial = false
	if ConcealFrom(UserContext{UserID: "u-nobody", Role: RoleColaborador}, res) {
		t.Fatal("non-confidential records are denied openly, not concealed")
	}
}

func TestCanPerformProfileRead(t *testing.T) {
	colab := UserContext{UserID: "u-colab", Role: RoleColaborador}
	if !CanPerform(colab, ActionProfileRead, Resource{ColaboradorID: "u-colab"}) {
		t.Fatal("collaborator should read own profile")
	}
	if CanPerform(colab, ActionProfileRead, Resource{ColaboradorID: "u-other"}) {
		t.Fatal("collaborator must not read another profile")
	}
	gestor := UserContext{UserID: "u-gestor", Role: RoleGestor}
	if !CanPerform(gestor, ActionProfileRead, Resource{ColaboradorID: "u-other"}) {
		t.Fatal("gestor should read collaborator profiles")
	}
}
