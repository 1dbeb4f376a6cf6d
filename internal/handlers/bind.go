package handlers

import "github.com/labstack/echo/v4"

func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return badRequest("invalid request body")
	}
	return nil
}
