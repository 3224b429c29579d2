// Package httprouter wires the HTTP API to the queue manager and the stores.
package httprouter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"oxyget/internal/auth"
	"oxyget/internal/consts"
	"oxyget/internal/entity"
	"oxyget/internal/errs"
	"oxyget/internal/infrastructure/delivery/http/middleware"
	"oxyget/internal/infrastructure/delivery/http/request"
	"oxyget/internal/infrastructure/delivery/http/response"
	"oxyget/internal/joblog"
	"oxyget/internal/observability"
	"oxyget/internal/queue"
	"oxyget/internal/settings"
)

type Router struct {
	*http.ServeMux
	log         *slog.Logger
	globalChain []func(http.Handler) http.Handler

	manager  *queue.Manager
	settings *settings.Store
	auth     *auth.Store
	recorder *joblog.Recorder
}

func New(
	log *slog.Logger,
	manager *queue.Manager,
	st *settings.Store,
	au *auth.Store,
	rec *joblog.Recorder,
	metrics *observability.Metrics,
) *Router {
	r := &Router{
		ServeMux: http.NewServeMux(),
		log:      log.With(slog.String("package", "httprouter")),
		manager:  manager,
		settings: st,
		auth:     au,
		recorder: rec,
	}

	r.Use(
		middleware.Recoverer,
		middleware.RequestID,
		middleware.Logger,
		middleware.Metrics(metrics),
	)

	r.SetRoutes()

	return r
}

func (r *Router) Use(mw ...func(http.Handler) http.Handler) {
	r.globalChain = append(r.globalChain, mw...)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var h http.Handler = r.ServeMux

	for _, mw := range slices.Backward(r.globalChain) {
		h = mw(h)
	}

	h.ServeHTTP(w, req)
}

func (r *Router) SetRoutes() {
	r.HandleFunc("GET /v1/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Handle("GET /metrics", observability.Handler())

	r.HandleFunc("POST /v1/jobs/enqueue", r.Enqueue)
	r.HandleFunc("GET /v1/jobs/pending", r.PendingJobs)
	r.HandleFunc("GET /v1/jobs/progress", r.Progress)
	r.HandleFunc("GET /v1/jobs/last", r.LastResult)

	r.HandleFunc("GET /v1/settings", r.GetSettings)
	r.HandleFunc("PATCH /v1/settings", r.UpdateSettings)
	r.HandleFunc("POST /v1/settings/reset", r.ResetSettings)

	r.HandleFunc("GET /v1/auth", r.ListAuth)
	r.HandleFunc("PUT /v1/auth/{domain}/cookie", r.SaveCookie)
	r.HandleFunc("PUT /v1/auth/{domain}/credentials", r.SaveCredentials)
	r.HandleFunc("DELETE /v1/auth/{domain}", r.DeleteAuth)

	r.HandleFunc("GET /v1/logs", r.ListLogs)
	r.HandleFunc("POST /v1/logs/reload", r.ReloadLogs)
}

func (r *Router) Enqueue(w http.ResponseWriter, req *http.Request) {
	log := r.log.With("handler", "Enqueue")
	ctx := req.Context()

	var in request.Enqueue
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		log.ErrorContext(ctx, consts.RespInvalidRequestBody, slog.Any("error", err))
		response.BadRequest(w, consts.RespInvalidRequestBody, err)

		return
	}

	if err := in.Validate(); err != nil {
		log.ErrorContext(ctx, consts.RespUnprocessableEntity, slog.Any("error", err))
		response.UnprocessableEntity(w, consts.RespUnprocessableEntity, err)

		return
	}

	job, err := r.manager.Submit(in.URL, in.AudioOnly, in.OutputFilename)
	if err != nil {
		log.ErrorContext(ctx, consts.RespJobEnqueueFail, slog.Any("error", err))
		response.InternalServerError(w, consts.RespJobEnqueueFail, nil, err)

		return
	}

	log.InfoContext(ctx, consts.RespJobEnqueued, "job", job)

	response.Accepted(w, consts.RespJobEnqueued, job, nil)
}

func (r *Router) PendingJobs(w http.ResponseWriter, _ *http.Request) {
	jobs := r.manager.Pending()
	if len(jobs) == 0 {
		response.NoContent(w)

		return
	}

	response.OK(w, consts.RespLogsRetrieved, jobs, nil)
}

func (r *Router) Progress(w http.ResponseWriter, _ *http.Request) {
	prog, ok := r.manager.LatestProgress()
	if !ok {
		response.NoContent(w)

		return
	}

	response.OK(w, consts.RespProgressRetrieved, prog, nil)
}

func (r *Router) LastResult(w http.ResponseWriter, _ *http.Request) {
	res, ok := r.manager.LastResult()
	if !ok {
		response.NoContent(w)

		return
	}

	response.OK(w, consts.RespProgressRetrieved, res, nil)
}

func (r *Router) GetSettings(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, consts.RespSettingsRetrieved, r.settings.Snapshot(), nil)
}

func (r *Router) UpdateSettings(w http.ResponseWriter, req *http.Request) {
	log := r.log.With("handler", "UpdateSettings")
	ctx := req.Context()

	var in request.UpdateSettings
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		log.ErrorContext(ctx, consts.RespInvalidRequestBody, slog.Any("error", err))
		response.BadRequest(w, consts.RespInvalidRequestBody, err)

		return
	}

	updated, err := r.settings.Update(func(st *entity.Settings) error {
		in.Apply(st)

		return nil
	})
	if err != nil {
		log.ErrorContext(ctx, consts.RespSettingsUpdateFail, slog.Any("error", err))
		response.UnprocessableEntity(w, consts.RespSettingsUpdateFail, err)

		return
	}

	response.OK(w, consts.RespSettingsUpdated, updated, nil)
}

func (r *Router) ResetSettings(w http.ResponseWriter, req *http.Request) {
	log := r.log.With("handler", "ResetSettings")

	st, err := r.settings.Reset()
	if err != nil {
		log.ErrorContext(req.Context(), consts.RespSettingsUpdateFail, slog.Any("error", err))
		response.InternalServerError(w, consts.RespSettingsUpdateFail, nil, err)

		return
	}

	response.OK(w, consts.RespSettingsReset, st, nil)
}

func (r *Router) ListAuth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, consts.RespAuthListed, r.auth.List(), nil)
}

func (r *Router) SaveCookie(w http.ResponseWriter, req *http.Request) {
	log := r.log.With("handler", "SaveCookie")
	ctx := req.Context()
	domain := req.PathValue("domain")

	var in request.SaveCookie
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		log.ErrorContext(ctx, consts.RespInvalidRequestBody, slog.Any("error", err))
		response.BadRequest(w, consts.RespInvalidRequestBody, err)

		return
	}

	if err := in.Validate(); err != nil {
		response.UnprocessableEntity(w, consts.RespUnprocessableEntity, err)

		return
	}

	if err := r.auth.SaveCookie(domain, []byte(in.Cookies)); err != nil {
		log.ErrorContext(ctx, consts.RespAuthSaveFail, slog.Any("error", err))
		response.InternalServerError(w, consts.RespAuthSaveFail, nil, err)

		return
	}

	response.OK(w, consts.RespAuthSaved, nil, nil)
}

func (r *Router) SaveCredentials(w http.ResponseWriter, req *http.Request) {
	log := r.log.With("handler", "SaveCredentials")
	ctx := req.Context()
	domain := req.PathValue("domain")

	var in request.SaveCredentials
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		log.ErrorContext(ctx, consts.RespInvalidRequestBody, slog.Any("error", err))
		response.BadRequest(w, consts.RespInvalidRequestBody, err)

		return
	}

	if err := in.Validate(); err != nil {
		response.UnprocessableEntity(w, consts.RespUnprocessableEntity, err)

		return
	}

	creds := entity.Credentials{Username: in.Username, Password: in.Password}
	if err := r.auth.SaveCredentials(domain, creds); err != nil {
		log.ErrorContext(ctx, consts.RespAuthSaveFail, slog.Any("error", err))
		response.InternalServerError(w, consts.RespAuthSaveFail, nil, err)

		return
	}

	response.OK(w, consts.RespAuthSaved, nil, nil)
}

func (r *Router) DeleteAuth(w http.ResponseWriter, req *http.Request) {
	log := r.log.With("handler", "DeleteAuth")
	domain := req.PathValue("domain")

	err := r.auth.Delete(domain)
	if errors.Is(err, errs.ErrAuthEntryNotFound) {
		response.NotFound(w, consts.RespAuthNotFound, err)

		return
	}

	if err != nil {
		log.ErrorContext(req.Context(), consts.RespAuthSaveFail, slog.Any("error", err))
		response.InternalServerError(w, consts.RespAuthSaveFail, nil, err)

		return
	}

	response.OK(w, consts.RespAuthDeleted, nil, nil)
}

func (r *Router) ListLogs(w http.ResponseWriter, _ *http.Request) {
	records := r.recorder.List()
	if len(records) == 0 {
		response.NoContent(w)

		return
	}

	response.OK(w, consts.RespLogsRetrieved, records, nil)
}

func (r *Router) ReloadLogs(w http.ResponseWriter, req *http.Request) {
	log := r.log.With("handler", "ReloadLogs")

	if err := r.recorder.Reload(); err != nil {
		log.ErrorContext(req.Context(), consts.RespLogsReloadFail, slog.Any("error", err))
		response.InternalServerError(w, consts.RespLogsReloadFail, nil, err)

		return
	}

	response.OK(w, consts.RespLogsReloaded, r.recorder.List(), nil)
}
