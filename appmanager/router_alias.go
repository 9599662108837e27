package appmanager

import "github.com/ozanturksever/routekit/router"

// RouteDefinitionAlias aliases router.RouteDef to avoid importing router
// directly in types.go, keeping AppConfig's import surface small.
type RouteDefinitionAlias = router.RouteDef
