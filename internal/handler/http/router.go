package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	ServiceName    string
}

func NewRouter(opts RouterOptions, attendanceHandler AttendanceHandler, reportHandler ReportHandler) http.Handler {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Traceparent", "Tracestate"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/attendance", func(r chi.Router) {
			r.Post("/check-in", attendanceHandler.CheckIn)
			r.Post("/check-out", attendanceHandler.CheckOut)
			r.Post("/break/start", attendanceHandler.StartBreak)
			r.Post("/break/end", attendanceHandler.EndBreak)

			r.Get("/", attendanceHandler.List)
			r.Get("/stream", attendanceHandler.Stream)

			r.Route("/{employeeID}/{date}", func(r chi.Router) {
				r.Get("/", attendanceHandler.Get)
				r.Put("/", attendanceHandler.Correct)
				r.Post("/approve", attendanceHandler.Approve)
				r.Put("/status", attendanceHandler.MarkStatus)
			})
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", reportHandler.Summary)
			r.Get("/export", reportHandler.Export)
		})
	})

	name := opts.ServiceName
	if name == "" {
		name = "attendance-engine"
	}
	return otelhttp.NewHandler(r, name,
		otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
			return req.Method + " " + req.URL.Path
		}),
		otelhttp.WithFilter(func(req *http.Request) bool {
			return req.URL.Path != "/"
		}),
	)
}
