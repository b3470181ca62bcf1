package app

import (
	"github.com/abhisek/eduz/internal/appctx"
	"github.com/abhisek/eduz/internal/guard"
	"github.com/abhisek/eduz/internal/screen"
	"github.com/abhisek/eduz/internal/screens/addquestions"
	"github.com/abhisek/eduz/internal/screens/dashboard"
	"github.com/abhisek/eduz/internal/screens/history"
	"github.com/abhisek/eduz/internal/screens/landing"
	"github.com/abhisek/eduz/internal/screens/login"
	"github.com/abhisek/eduz/internal/screens/manage"
	"github.com/abhisek/eduz/internal/screens/preview"
	"github.com/abhisek/eduz/internal/screens/promote"
	"github.com/abhisek/eduz/internal/screens/quizprep"
	"github.com/abhisek/eduz/internal/screens/quizrun"
	"github.com/abhisek/eduz/internal/screens/result"
	"github.com/abhisek/eduz/internal/screens/signup"
)

// Factory builds the page of a route. params is the NavigateMsg payload
// and may be nil.
type Factory func(deps *appctx.Deps, params any) screen.Screen

var routes = map[guard.Path]Factory{
	guard.PathLanding: func(d *appctx.Deps, _ any) screen.Screen {
		return landing.New(d.Session.State())
	},
	guard.PathLogin: func(d *appctx.Deps, params any) screen.Screen {
		from, _ := params.(guard.Path)
		return login.New(d, from)
	},
	guard.PathSignup: func(d *appctx.Deps, _ any) screen.Screen {
		return signup.New(d)
	},
	guard.PathStudentDashboard: func(d *appctx.Deps, _ any) screen.Screen {
		return dashboard.NewStudent(d)
	},
	guard.PathTeacherDashboard: func(d *appctx.Deps, _ any) screen.Screen {
		return dashboard.NewTeacher(d)
	},
	guard.PathAdminDashboard: func(d *appctx.Deps, _ any) screen.Screen {
		return dashboard.NewAdmin(d)
	},
	guard.PathQuizPrep: func(d *appctx.Deps, _ any) screen.Screen {
		return quizprep.New(d)
	},
	guard.PathQuiz: func(d *appctx.Deps, params any) screen.Screen {
		p, _ := params.(quizrun.Params)
		return quizrun.New(d, p)
	},
	guard.PathQuizResult: func(d *appctx.Deps, params any) screen.Screen {
		p, _ := params.(result.Params)
		return result.New(d, p)
	},
	guard.PathAddQuestions: func(d *appctx.Deps, _ any) screen.Screen {
		return addquestions.New(d)
	},
	guard.PathPreviewQuestions: func(d *appctx.Deps, params any) screen.Screen {
		p, _ := params.(preview.Params)
		return preview.New(d, p)
	},
	guard.PathPromote: func(d *appctx.Deps, _ any) screen.Screen {
		return promote.New(d)
	},
	guard.PathManage: func(d *appctx.Deps, _ any) screen.Screen {
		return manage.New(d)
	},
	guard.PathHistory: func(d *appctx.Deps, _ any) screen.Screen {
		return history.New(d.History)
	},
}
