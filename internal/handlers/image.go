package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kamishop/internal/logging"
	"github.com/Skotchmaster/kamishop/internal/storage"
)

const maxImageBytes = 10 << 20

type ImageHandler struct {
	Store *storage.ImageStore
}

func (h *ImageHandler) Read(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "drawingbed.read")

	offset, limit, err := page(c)
	if err != nil {
		return fail(c, l, "drawingbed_read_failed", err)
	}
	total, items, err := h.Store.List(offset, limit)
	if err != nil {
		return fail(c, l, "drawingbed_read_failed", err)
	}
	return ok(c, "图像查询成功", map[string]any{
		"data":  items,
		"pager": map[string]int{"page": offset / limit, "pageSize": limit, "total": total},
	})
}

func (h *ImageHandler) Show(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "drawingbed.show")

	p, err := h.Store.Path(c.Param("filename"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return respond(c, http.StatusNotFound, "找不到文件", nil)
		}
		return fail(c, l, "drawingbed_show_failed", err)
	}
	return c.File(p)
}

func (h *ImageHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "drawingbed.create")

	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, l, "drawingbed_create_failed", badRequest("file field required"))
	}
	if fh.Size > maxImageBytes {
		return fail(c, l, "drawingbed_create_failed", badRequest("file too large"))
	}
	src, err := fh.Open()
	if err != nil {
		return fail(c, l, "drawingbed_create_failed", err)
	}
	defer src.Close()

	img, err := h.Store.Save(fh.Filename, src)
	if err != nil {
		return fail(c, l, "drawingbed_create_failed", err)
	}
	l.Infow("drawingbed_create_success", "filename", img.Filename)
	return ok(c, "图像上传成功", img)
}

func (h *ImageHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "drawingbed.delete")

	img, err := h.Store.Delete(c.Param("filename"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return respond(c, http.StatusNotFound, "找不到文件", nil)
		}
		return fail(c, l, "drawingbed_delete_failed", err)
	}
	return ok(c, "图像删除成功", img)
}
