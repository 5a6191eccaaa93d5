package pubadmin

import (
	"encoding/json"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/eringen/pubadmin/notify"
)

const toastFlashKey = "toasts"

// addFlash stores toasts in the session for the next rendered page.
func addFlash(c echo.Context, toasts ...notify.Toast) error {
	if len(toasts) == 0 {
		return nil
	}
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	for _, t := range toasts {
		b, err := json.Marshal(t)
		if err != nil {
			return err
		}
		sess.AddFlash(string(b), toastFlashKey)
	}
	return sess.Save(c.Request(), c.Response())
}

// takeFlashes pops the toasts stored by addFlash. It must run before the
// response is written.
func takeFlashes(c echo.Context) []notify.Toast {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return nil
	}
	flashes := sess.Flashes(toastFlashKey)
	if len(flashes) == 0 {
		return nil
	}
	var toasts []notify.Toast
	for _, f := range flashes {
		s, ok := f.(string)
		if !ok {
			continue
		}
		var t notify.Toast
		if json.Unmarshal([]byte(s), &t) == nil {
			toasts = append(toasts, t)
		}
	}
	_ = sess.Save(c.Request(), c.Response())
	return toasts
}
