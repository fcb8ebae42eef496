package contracts

import "github.com/julienschmidt/httprouter"

type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

type multiHandler []Handler

func (m multiHandler) RegisterRoutes(router *httprouter.Router) {
	for _, h := range m {
		h.RegisterRoutes(router)
	}
}

// Multi combines several handlers into one, for binaries that mount more
// than one route group.
func Multi(handlers ...Handler) Handler {
	return multiHandler(handlers)
}
