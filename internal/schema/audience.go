package schema

type Role string

const (
	RoleAny             Role = ""
	RoleClinician       Role = "clinician"
	RoleCareCoordinator Role = "careCoordinator"
)

// Audience selects which display-only items are shown. It has no effect on progress.
type Audience struct {
	Role       Role
	ChildFirst bool
}

func (it Item) ShownFor(a Audience) bool {
	if it.ChildFirstOnly && !a.ChildFirst {
		return false
	}
	if it.ClinicianOnly && a.Role == RoleCareCoordinator {
		return false
	}
	if it.CareCoordinatorOnly && a.Role == RoleClinician {
		return false
	}
	return true
}
