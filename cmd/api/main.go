package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/JJ950407/lia-pagare/internal/batch"
	"github.com/JJ950407/lia-pagare/internal/config"
	"github.com/JJ950407/lia-pagare/internal/contract"
	liaHttp "github.com/JJ950407/lia-pagare/internal/http"
	"github.com/JJ950407/lia-pagare/internal/http/documents"
	"github.com/JJ950407/lia-pagare/internal/http/sessions"
	"github.com/JJ950407/lia-pagare/internal/http/verify"
	"github.com/JJ950407/lia-pagare/internal/office"
	"github.com/JJ950407/lia-pagare/internal/render"
	"github.com/JJ950407/lia-pagare/internal/session"
)

func main() {
	// Local development keeps its settings in .env; absence is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var (
		batchService    = batch.NewService(render.NewRenderer(), cfg.Paths.OutputRoot)
		contractService = contract.NewService(
			contract.TemplateRenderer{},
			&office.LibreOffice{Binary: cfg.Office.Binary},
			cfg.TemplateCandidates(),
			cfg.Paths.ContractsDir,
			cfg.Paths.TmpDir,
		)
		sessionStore = session.NewStore(cfg.Session.TTL)
	)

	var (
		documentsH = documents.NewHandler(batchService, contractService)
		sessionsH  = sessions.NewHandler(sessionStore, batchService, contractService)
		verifyH    = verify.NewHandler(cfg.Paths.OutputRoot, cfg.Paths.ContractsDir)
	)

	router := liaHttp.New(documentsH, sessionsH, verifyH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
