package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/WyattC-ctrl/StudyBuddy/internal/config"
	catalogsvc "github.com/WyattC-ctrl/StudyBuddy/internal/services/catalog"
	matchessvc "github.com/WyattC-ctrl/StudyBuddy/internal/services/matches"
	meetingsvc "github.com/WyattC-ctrl/StudyBuddy/internal/services/meetings"
	profilesvc "github.com/WyattC-ctrl/StudyBuddy/internal/services/profiles"
	suggestionssvc "github.com/WyattC-ctrl/StudyBuddy/internal/services/suggestions"
	swipesvc "github.com/WyattC-ctrl/StudyBuddy/internal/services/swipes"
	userssvc "github.com/WyattC-ctrl/StudyBuddy/internal/services/users"
	"github.com/WyattC-ctrl/StudyBuddy/internal/transport/http/handlers"
)

type Dependencies struct {
	UserService       *userssvc.Service
	SwipeService      *swipesvc.Service
	MatchService      *matchessvc.Service
	SuggestionService *suggestionssvc.Service
	ProfileService    *profilesvc.Service
	CatalogService    *catalogsvc.Service
	MeetingService    *meetingsvc.Service
	Logger            *zap.Logger
	Config            config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	usersHandler := handlers.NewUsersHandler(deps.UserService)
	swipeHandler := handlers.NewSwipeHandler(deps.SwipeService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService, deps.Config.Matches.DefaultLimit)
	suggestionsHandler := handlers.NewSuggestionsHandler(deps.SuggestionService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	meetingsHandler := handlers.NewMeetingsHandler(deps.MeetingService)
	coursesHandler := handlers.NewCatalogHandler(deps.CatalogService, catalogsvc.KindCourse)
	majorsHandler := handlers.NewCatalogHandler(deps.CatalogService, catalogsvc.KindMajor)
	studyAreasHandler := handlers.NewCatalogHandler(deps.CatalogService, catalogsvc.KindStudyArea)
	studyTimesHandler := handlers.NewCatalogHandler(deps.CatalogService, catalogsvc.KindStudyTime)

	r.Get("/healthz", healthHandler.Handle)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", usersHandler.Create)
		r.Get("/", usersHandler.List)
		r.Route("/{userID}", func(r chi.Router) {
			r.Get("/", usersHandler.Get)
			r.Get("/suggestions", suggestionsHandler.Handle)
			r.Get("/matches", matchesHandler.Handle)
			r.Get("/meetings", meetingsHandler.ListForUser)
		})
	})

	r.Post("/swipes", swipeHandler.Handle)

	r.Route("/profiles", func(r chi.Router) {
		r.Post("/", profileHandler.Create)
		r.Get("/", profileHandler.List)
		r.Route("/{profileID}", func(r chi.Router) {
			r.Get("/", profileHandler.Get)
			r.Patch("/", profileHandler.Update)
		})
	})

	r.Post("/meetings", meetingsHandler.Create)

	catalogRoutes := []struct {
		path    string
		handler *handlers.CatalogHandler
	}{
		{"/courses", coursesHandler},
		{"/majors", majorsHandler},
		{"/study-areas", studyAreasHandler},
		{"/study-times", studyTimesHandler},
	}
	for _, route := range catalogRoutes {
		handler := route.handler
		r.Route(route.path, func(r chi.Router) {
			r.Post("/", handler.Create)
			r.Get("/", handler.List)
			r.Get("/{entryID}", handler.Get)
		})
	}
}
