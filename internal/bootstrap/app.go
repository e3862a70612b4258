package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "resume-composer/internal/auth"
	"resume-composer/internal/educations"
	"resume-composer/internal/experiences"
	"resume-composer/internal/profiles"
	"resume-composer/internal/relationships"
	"resume-composer/internal/resumes"
	"resume-composer/internal/sections"
	"resume-composer/internal/shared/config"
	"resume-composer/internal/shared/server"
	"resume-composer/internal/shared/storage/db"
	"resume-composer/internal/shared/storage/object"
	localstore "resume-composer/internal/shared/storage/object/local"
	s3store "resume-composer/internal/shared/storage/object/s3"
	"resume-composer/internal/snippets"
	"resume-composer/internal/users"
)

// App holds the wired dependency graph behind the router. Tests build one
// against memory repositories and drive the Router directly.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	UsersRepo    users.Repo
	ProfilesRepo profiles.Repo
	ResumesRepo  resumes.Repo

	UsersService       *users.Service
	ProfilesService    *profiles.Service
	ResumesService     *resumes.Service
	EducationsService  *educations.Service
	ExperiencesService *experiences.Service
	SectionsService    *sections.Service
	SnippetsService    *snippets.Service

	UsersHandler       *users.Handler
	ProfilesHandler    *profiles.Handler
	ResumesHandler     *resumes.Handler
	EducationsHandler  *educations.Handler
	ExperiencesHandler *experiences.Handler
	SectionsHandler    *sections.Handler
	SnippetsHandler    *snippets.Handler
	GoogleAuth         *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		UserHandler:       app.UsersHandler,
		ProfileHandler:    app.ProfilesHandler,
		ResumeHandler:     app.ResumesHandler,
		EducationHandler:  app.EducationsHandler,
		ExperienceHandler: app.ExperiencesHandler,
		SectionHandler:    app.SectionsHandler,
		SnippetHandler:    app.SnippetsHandler,
		GoogleAuth:        app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			_ = sqlDB.Close()
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var (
		userRepo    users.Repo
		profileRepo profiles.Repo
		resumeRepo  resumes.Repo
		eduRepo     educations.Repo
		expRepo     experiences.Repo
		secRepo     sections.Repo

		snippetStore snippets.Store

		eduRows    relationships.Store
		expRows    relationships.Store
		secRows    relationships.Store
		bulletRows relationships.Store

		eduCleanup func(ctx context.Context, id string) error
		expCleanup func(ctx context.Context, id string) error
		secCleanup func(ctx context.Context, id string) error
	)

	if app.DB != nil {
		// Postgres cascades placement rows when a library entry goes away,
		// so the services need no cleanup hooks.
		userRepo = &users.PGRepo{DB: app.DB}
		profileRepo = &profiles.PGRepo{DB: app.DB}
		resumeRepo = &resumes.PGRepo{DB: app.DB}
		eduRepo = &educations.PGRepo{DB: app.DB}
		expRepo = &experiences.PGRepo{DB: app.DB}
		secRepo = &sections.PGRepo{DB: app.DB}
		snippetStore = snippets.NewPGStore(app.DB)
		eduRows = relationships.NewPGStore(app.DB, relationships.ResumeEducations)
		expRows = relationships.NewPGStore(app.DB, relationships.ResumeExperiences)
		secRows = relationships.NewPGStore(app.DB, relationships.ResumeSections)
		bulletRows = relationships.NewPGStore(app.DB, relationships.ExperienceBullets)
	} else {
		userRepo = users.NewMemoryRepo()
		profileRepo = profiles.NewMemoryRepo()
		resumeRepo = resumes.NewMemoryRepo()
		eduRepo = educations.NewMemoryRepo()
		expRepo = experiences.NewMemoryRepo()
		secRepo = sections.NewMemoryRepo()

		eduMem := relationships.NewMemoryStore()
		expMem := relationships.NewMemoryStore()
		secMem := relationships.NewMemoryStore()
		bulletMem := relationships.NewMemoryStore()
		eduRows, expRows, secRows, bulletRows = eduMem, expMem, secMem, bulletMem
		eduCleanup = eduMem.DeleteChildEverywhere
		expCleanup = expMem.DeleteChildEverywhere
		secCleanup = secMem.DeleteChildEverywhere

		snippetStore = snippets.NewMemoryStore(bulletMem)
	}

	eduSvc := &educations.Service{Repo: eduRepo, CleanupPlacements: eduCleanup}
	expSvc := &experiences.Service{Repo: expRepo, CleanupPlacements: expCleanup}
	secSvc := &sections.Service{Repo: secRepo, CleanupPlacements: secCleanup}
	snippetSvc := &snippets.Service{Store: snippetStore}

	resumeSvc := &resumes.Service{
		Repo:           resumeRepo,
		Educations:     eduSvc,
		Experiences:    expSvc,
		Sections:       secSvc,
		Snippets:       snippetSvc,
		EducationRows:  eduRows,
		ExperienceRows: expRows,
		SectionRows:    secRows,
		BulletRows:     bulletRows,
	}

	userSvc := users.NewService(userRepo)
	userSvc.SeedMaster = func(ctx context.Context, userID string) error {
		_, err := resumeSvc.EnsureMaster(ctx, userID)
		return err
	}

	profileSvc := &profiles.Service{Repo: profileRepo, Store: app.Store}

	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)

	app.UsersRepo = userRepo
	app.ProfilesRepo = profileRepo
	app.ResumesRepo = resumeRepo
	app.UsersService = userSvc
	app.ProfilesService = profileSvc
	app.ResumesService = resumeSvc
	app.EducationsService = eduSvc
	app.ExperiencesService = expSvc
	app.SectionsService = secSvc
	app.SnippetsService = snippetSvc
	app.UsersHandler = users.NewHandler(userSvc)
	app.ProfilesHandler = profiles.NewHandler(profileSvc)
	app.ResumesHandler = resumes.NewHandler(resumeSvc)
	app.EducationsHandler = educations.NewHandler(eduSvc)
	app.ExperiencesHandler = experiences.NewHandler(expSvc)
	app.SectionsHandler = sections.NewHandler(secSvc)
	app.SnippetsHandler = snippets.NewHandler(snippetSvc)
	app.GoogleAuth = googleAuthSvc

	if app.ResumesHandler == nil || app.UsersHandler == nil || app.SnippetsHandler == nil {
		return errors.New("failed to initialize handlers")
	}

	return nil
}
