package server

// Route path constants. All application routes are defined here to ensure
// consistency and prevent typos.
const (
	RouteConnectToken = "/connect/token"
	RouteLogin        = "/login"
	RouteLogout       = "/logout"
	RouteRegister     = "/register"
	RouteMe           = "/me"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("POST "+RouteConnectToken, ChainMiddleware(s.Token(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.Login(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.Logout(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteRegister, ChainMiddleware(s.Register(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteMe, s.logins.Middleware(ChainMiddleware(s.Me(), s.APIMiddleware()...)))
}
