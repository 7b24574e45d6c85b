package serve

import (
	"net/http"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// NewRouter GET/HEAD /files/<name>，支持 Range 请求
func NewRouter(store Store) *echo.Echo {
	e := echo.New()

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c *echo.Context, v middleware.RequestLoggerValues) error {
			logrus.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency,
			}).Info("request")
			return nil
		},
	}))

	h := &fileHandler{store: store}
	e.GET("/files/*", h.handle)
	e.HEAD("/files/*", h.handle)
	return e
}

type fileHandler struct {
	store Store
}

func (h *fileHandler) handle(c *echo.Context) error {
	name := c.Param("*")
	req := c.Request()

	rd, closer, err := h.store.Open(req.Context(), name)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "文件不存在")
	}
	if err != nil {
		return err
	}
	defer closer.Close()

	resp, err := rd.Respond(req.Context(), req.Header.Get(HeaderRange))
	if err != nil {
		return err
	}
	if resp.Status == http.StatusRequestedRangeNotSatisfiable {
		logrus.Debugf("%s 的 Range %q 无法满足", name, req.Header.Get(HeaderRange))
	}

	// 响应头已经写出，出错只能记录
	if err = Write(c.Response(), req, resp); err != nil {
		logrus.Warnf("发送 %s 中断：%v", name, err)
	}
	return nil
}
