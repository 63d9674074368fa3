package echoapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/result"
	exportsvc "github.com/trezcool/alama/services/export"
)

type resultApi struct {
	svc      result.Service
	validate *validator.Validate
}

func registerResultAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := resultApi{
		svc:      deps.ResultSvc,
		validate: deps.Validate,
	}

	// recording and editing test sittings is admin territory
	tg := g.Group("/tests", jwt, adminMiddleware())
	tg.POST("", api.create)
	tg.PUT("", api.replace)
	tg.DELETE("", api.destroy)

	rg := g.Group("/results", jwt, adminMiddleware())
	rg.GET("", api.overview)
	rg.GET("/export", api.export)
}

// Handlers

func (api *resultApi) create(ctx echo.Context) error {
	var data result.NewTestInstance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTestInstance")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rows, err := api.svc.SaveInstance(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving test instance")
	}
	return ctx.JSON(http.StatusCreated, rows)
}

func (api *resultApi) replace(ctx echo.Context) error {
	key, err := bindInstanceKey(ctx)
	if err != nil {
		return err
	}

	var data result.NewTestInstance
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTestInstance")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	rows, err := api.svc.ReplaceInstance(ctx.Request().Context(), key, data)
	if err != nil {
		return errors.Wrap(err, "replacing test instance")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *resultApi) destroy(ctx echo.Context) error {
	key, err := bindInstanceKey(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteInstance(ctx.Request().Context(), key); err != nil {
		return errors.Wrap(err, "deleting test instance")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *resultApi) overview(ctx echo.Context) error {
	views, err := api.svc.Overview(ctx.Request().Context(), ctx.QueryParam("student"))
	if err != nil {
		return errors.Wrap(err, "building results overview")
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api *resultApi) export(ctx echo.Context) error {
	views, err := api.svc.Overview(ctx.Request().Context(), ctx.QueryParam("student"))
	if err != nil {
		return errors.Wrap(err, "building results overview")
	}

	var buf bytes.Buffer
	if err = exportsvc.WriteOverview(&buf, views); err != nil {
		return errors.Wrap(err, "rendering workbook")
	}

	filename := fmt.Sprintf("results-%s.xlsx", core.Today())
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Blob(http.StatusOK, exportsvc.ContentType, buf.Bytes())
}
