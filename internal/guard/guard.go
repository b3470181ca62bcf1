// Package guard decides whether the current session may view a route.
package guard

import (
	"slices"

	"github.com/abhisek/eduz/internal/session"
)

// Path identifies a navigable page.
type Path string

const (
	PathLanding          Path = "/"
	PathLogin            Path = "/login"
	PathSignup           Path = "/signup"
	PathStudentDashboard Path = "/dashboard/student"
	PathTeacherDashboard Path = "/dashboard/teacher"
	PathAdminDashboard   Path = "/dashboard/admin"
	PathQuizPrep         Path = "/quizprep"
	PathQuiz             Path = "/quiz"
	PathQuizResult       Path = "/quiz/result"
	PathAddQuestions     Path = "/questions/add"
	PathPreviewQuestions Path = "/questions/preview"
	PathPromote          Path = "/admin/promote"
	PathManage           Path = "/manage"
	PathHistory          Path = "/history"
)

// Rule is a route's access requirement.
type Rule interface {
	// Allows reports whether st may view the route.
	Allows(st session.State) bool
	// NeedsAuth reports whether an anonymous session is sent to login.
	NeedsAuth() bool
}

// Public routes are open to everyone.
type Public struct{}

func (Public) Allows(session.State) bool { return true }
func (Public) NeedsAuth() bool           { return false }

// Authenticated routes need a token, any role.
type Authenticated struct{}

func (Authenticated) Allows(st session.State) bool { return st.Authenticated() }
func (Authenticated) NeedsAuth() bool              { return true }

// RolesIn routes need a token and one of the listed roles.
type RolesIn []session.Role

func (r RolesIn) Allows(st session.State) bool {
	return st.Authenticated() && slices.Contains(r, st.Role)
}

func (RolesIn) NeedsAuth() bool { return true }

// Decision is the outcome of a navigation check.
type Decision struct {
	Allow bool
	// Redirect is the path to show instead when Allow is false.
	Redirect Path
	// From is the attempted path, set when the redirect is to login so the
	// caller can resume there after authentication.
	From Path
}

// Check evaluates rule for target under st.
func Check(rule Rule, st session.State, target Path) Decision {
	if rule == nil || rule.Allows(st) {
		return Decision{Allow: true}
	}
	if !st.Authenticated() {
		if !rule.NeedsAuth() {
			return Decision{Allow: true}
		}
		return Decision{Redirect: PathLogin, From: target}
	}
	if home, ok := HomeFor(st.Role); ok {
		return Decision{Redirect: home}
	}
	return Decision{Redirect: PathLogin}
}

// HomeFor returns the default dashboard of a role.
func HomeFor(role session.Role) (Path, bool) {
	switch role {
	case session.RoleStudent:
		return PathStudentDashboard, true
	case session.RoleTeacher:
		return PathTeacherDashboard, true
	case session.RoleAdmin:
		return PathAdminDashboard, true
	default:
		return "", false
	}
}

// Rules is the access table of every page.
var Rules = map[Path]Rule{
	PathLanding:          Public{},
	PathLogin:            Public{},
	PathSignup:           Public{},
	PathStudentDashboard: RolesIn{session.RoleStudent},
	PathTeacherDashboard: RolesIn{session.RoleTeacher},
	PathAdminDashboard:   RolesIn{session.RoleAdmin},
	PathQuizPrep:         RolesIn{session.RoleStudent, session.RoleTeacher},
	PathQuiz:             RolesIn{session.RoleStudent, session.RoleTeacher},
	PathQuizResult:       RolesIn{session.RoleStudent, session.RoleTeacher},
	PathAddQuestions:     RolesIn{session.RoleTeacher, session.RoleAdmin},
	PathPreviewQuestions: RolesIn{session.RoleTeacher, session.RoleAdmin},
	PathPromote:          RolesIn{session.RoleAdmin},
	PathManage:           RolesIn{session.RoleTeacher, session.RoleAdmin},
	PathHistory:          Authenticated{},
}

// CheckPath looks up the rule of target and evaluates it. Unknown paths are
// treated as requiring authentication.
func CheckPath(st session.State, target Path) Decision {
	rule, ok := Rules[target]
	if !ok {
		rule = Authenticated{}
	}
	return Check(rule, st, target)
}

// ResumeTarget picks where to go after a successful login: the attempted
// path if the new session may view it, otherwise the role's dashboard.
func ResumeTarget(st session.State, from Path) Path {
	if from != "" && from != PathLogin && CheckPath(st, from).Allow {
		return from
	}
	if home, ok := HomeFor(st.Role); ok {
		return home
	}
	return PathLanding
}
