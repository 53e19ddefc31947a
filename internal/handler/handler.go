package handler

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/workspace"
)

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	translator ut.Translator
	registry   *workspace.Registry
	proxy      http.Handler

	Mux *chi.Mux
}

// NewHandler 创建 handler，proxy 为 nil 时不挂载 /api
func NewHandler(cfg *config.Config, registry *workspace.Registry, proxy http.Handler) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// 错误信息中使用 json 字段名
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		translator: trans,
		registry:   registry,
		proxy:      proxy,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 上传模板不依赖工作区
	h.Mux.Get("/"+sampleFileName, h.DownloadSample)

	// 原样转发到后端，只补上 Authorization
	if h.proxy != nil {
		h.Mux.Handle("/api/*", http.StripPrefix("/api", h.proxy))
	}

	h.Mux.Group(func(r chi.Router) {
		r.Use(h.workspace)

		r.Delete("/alert", h.DismissAlert)

		// 列表页面
		r.Get("/rosters", h.MountList)
		r.Route("/list", func(r chi.Router) {
			r.Get("/", h.GetListView)
			r.Post("/refresh", h.RefreshList)
			r.Put("/search", h.SetListSearch)
			r.Post("/selection/toggle", h.ToggleRoster)
			r.Post("/selection/toggle-all", h.ToggleAllRosters)
			r.Route("/create", func(r chi.Router) {
				r.Post("/open", h.OpenCreateRoster)
				r.Post("/cancel", h.CancelCreateRoster)
				r.Post("/submit", h.SubmitCreateRoster)
				r.Post("/back", h.BackToCreateForm)
				r.Post("/confirm", h.ConfirmCreateRoster)
			})
			r.Route("/delete", func(r chi.Router) {
				r.Post("/open", h.OpenDeleteRosters)
				r.Post("/cancel", h.CancelDeleteRosters)
				r.Post("/confirm", h.ConfirmDeleteRosters)
			})
			r.Route("/export", func(r chi.Router) {
				r.Post("/open", h.OpenExportRosters)
				r.Post("/cancel", h.CancelExportRosters)
				r.Post("/confirm", h.ConfirmExportRosters)
			})
			r.Route("/upload", func(r chi.Router) {
				r.Post("/", h.StageUpload)
				r.Post("/cancel", h.CancelUpload)
				r.Post("/confirm", h.ConfirmUpload)
			})
		})

		// 详情页面，{code} 先按排班表代码再按 ID 查找
		r.Get("/rosters/{code}", h.MountDetail)
		r.Route("/detail", func(r chi.Router) {
			r.Get("/", h.GetDetailView)
			r.Post("/reload", h.ReloadDetail)
			r.Post("/save", h.SaveDetail)
			r.Put("/status", h.SetRosterStatus)
			r.Put("/column-width", h.SetColumnWidth)
			r.Post("/edit/discard", h.DiscardEdit)
			r.Route("/rows/{rowID}", func(r chi.Router) {
				r.Post("/edit", h.BeginEdit)
				r.Put("/days/{day}", h.EditDay)
				r.Post("/commit", h.CommitRow)
			})
			r.Post("/selection/toggle", h.ToggleJob)
			r.Post("/selection/toggle-all", h.ToggleAllJobs)
			r.Route("/delete", func(r chi.Router) {
				r.Post("/open", h.OpenDeleteJobs)
				r.Post("/cancel", h.CancelDeleteJobs)
				r.Post("/confirm", h.ConfirmDeleteJobs)
			})
			r.Route("/add-job", func(r chi.Router) {
				r.Post("/open", h.OpenAddJob)
				r.Post("/cancel", h.CancelAddJob)
				r.Put("/selection", h.SelectJob)
				r.Post("/confirm", h.ConfirmAddJob)
				r.Post("/draft", h.AddDraftJob)
			})
			r.Route("/export", func(r chi.Router) {
				r.Post("/open", h.OpenExportDetail)
				r.Post("/cancel", h.CancelExportDetail)
				r.Post("/confirm", h.ConfirmExportDetail)
			})
		})
	})
}
