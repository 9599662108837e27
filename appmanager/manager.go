package appmanager

import (
	"context"
	"fmt"

	"github.com/ozanturksever/logutil"
	"github.com/ozanturksever/routekit/reactivity"
	"github.com/ozanturksever/routekit/router"
	"github.com/ozanturksever/routekit/transition"
)

// AppManager orchestrates application lifecycle and owns the route
// transition engine used to drive navigation.
type AppManager struct {
	config       *AppConfig
	host         *router.Host
	recognizer   *router.Recognizer
	engine       *transition.Router
	store        *AppStore
	lifecycle    *LifecycleManager
	initialized  reactivity.Signal[bool]
	running      reactivity.Signal[bool]
	cleanupScope *reactivity.CleanupScope
}

// NewAppManager constructs a new AppManager with given or default config
func NewAppManager(config *AppConfig) *AppManager {
	if config == nil {
		config = DefaultAppConfig()
	}
	am := &AppManager{
		config:       config,
		lifecycle:    NewLifecycleManager(),
		initialized:  reactivity.CreateSignal(false),
		running:      reactivity.CreateSignal(false),
		cleanupScope: reactivity.NewCleanupScope(nil),
	}
	// Initialize store immediately so tests can verify initial state pre-initialize
	am.store = NewAppStore(config.InitialState, config.PersistenceKey)
	return am
}

// Initialize sets up the host, route recognizer and engine (when
// EnableRouter is set) and runs the init lifecycle hooks; the store is
// already created by NewAppManager.
func (am *AppManager) Initialize(ctx context.Context) error { // ctx reserved for future use
	if am.initialized.Get() {
		return fmt.Errorf("app manager already initialized")
	}

	if err := am.lifecycle.ExecuteHooks(EventBeforeInit, &LifecycleContext{Event: EventBeforeInit, Manager: am}); err != nil {
		return fmt.Errorf("beforeInit hooks failed: %w", err)
	}

	if am.config.EnableRouter {
		am.host = router.NewHost()
		am.recognizer = router.NewRecognizer(am.config.Routes...)
		am.engine = transition.NewRouter(am.recognizer,
			transition.WithGetHandler(am.host.GetHandler),
			transition.WithUpdateURL(am.host.UpdateURL),
			transition.WithReplaceURL(am.host.ReplaceURL),
			transition.WithWillTransition(func(handlerInfos []*transition.HandlerInfo) {
				if err := am.lifecycle.ExecuteHooks(EventBeforeRoute, &LifecycleContext{
					Event:   EventBeforeRoute,
					Manager: am,
					Data:    map[string]any{"handlers": handlerInfos},
				}); err != nil {
					logutil.Logf("beforeRoute hooks failed: %v", err)
				}
			}),
			transition.WithDidTransition(func(handlerInfos []*transition.HandlerInfo) {
				st := am.store.Get()
				st.Router.PreviousPath = st.Router.CurrentPath
				st.Router.CurrentPath = am.currentPath(handlerInfos)
				am.store.Replace(st)
				if err := am.lifecycle.ExecuteHooks(EventAfterRoute, &LifecycleContext{
					Event:   EventAfterRoute,
					Manager: am,
					Data:    map[string]any{"handlers": handlerInfos},
				}); err != nil {
					logutil.Logf("afterRoute hooks failed: %v", err)
				}
			}),
		)
	}

	am.initialized.Set(true)
	am.lifecycle.setState(LifecycleStateInitialized)

	if err := am.lifecycle.ExecuteHooks(EventAfterInit, &LifecycleContext{Event: EventAfterInit, Manager: am}); err != nil {
		return fmt.Errorf("afterInit hooks failed: %w", err)
	}

	return nil
}

// currentPath returns the deepest handler's name, used as a minimal path
// snapshot for AppState.Router until callers need the full handler chain.
func (am *AppManager) currentPath(handlerInfos []*transition.HandlerInfo) string {
	if len(handlerInfos) == 0 {
		return ""
	}
	return handlerInfos[len(handlerInfos)-1].Name
}

// AddHook registers a lifecycle hook on the internal lifecycle manager
func (am *AppManager) AddHook(event LifecycleEvent, hook LifecycleHook) {
	am.lifecycle.AddHook(event, hook)
}

// Start marks the manager as running once the host application has
// finished wiring its own handlers into the router.
func (am *AppManager) Start() error {
	if !am.initialized.Get() {
		return fmt.Errorf("app manager not initialized")
	}

	if err := am.lifecycle.ExecuteHooks(EventBeforeMount, &LifecycleContext{Event: EventBeforeMount, Manager: am}); err != nil {
		return fmt.Errorf("beforeMount hooks failed: %w", err)
	}

	am.running.Set(true)
	am.lifecycle.setState(LifecycleStateRunning)

	if err := am.lifecycle.ExecuteHooks(EventAfterMount, &LifecycleContext{Event: EventAfterMount, Manager: am}); err != nil {
		logutil.Logf("afterMount hooks failed: %v", err)
	}
	return nil
}

// Navigate performs a named transition via the engine. It returns an error
// when the manager is not running or the router is disabled.
func (am *AppManager) Navigate(name string, models ...any) (*transition.Transition, error) {
	if !am.running.Get() {
		return nil, fmt.Errorf("app manager not running")
	}
	if am.engine == nil {
		return nil, fmt.Errorf("router disabled for this app manager")
	}
	return am.engine.TransitionTo(name, models...), nil
}

// NavigateToURL performs a URL-based transition, as for deep links or
// browser back/forward events.
func (am *AppManager) NavigateToURL(url string) (*transition.Transition, error) {
	if !am.running.Get() {
		return nil, fmt.Errorf("app manager not running")
	}
	if am.engine == nil {
		return nil, fmt.Errorf("router disabled for this app manager")
	}
	return am.engine.HandleURL(url), nil
}

// Handle registers a route handler under name, delegating to the host.
func (am *AppManager) Handle(name string, handler transition.Handler) {
	if am.host != nil {
		am.host.Handle(name, handler)
	}
}

// GetState returns a snapshot of AppState
func (am *AppManager) GetState() AppState { return am.store.Get() }

// SetState replaces the entire app state
func (am *AppManager) SetState(st AppState) { am.store.Replace(st) }

// Cleanup tears down the engine's current chain and disposes the scope
func (am *AppManager) Cleanup() {
	if am.engine != nil {
		am.engine.Reset()
	}
	if am.cleanupScope != nil {
		am.cleanupScope.Dispose()
	}
	am.running.Set(false)
	am.lifecycle.setState(LifecycleStateStopped)
}

// Accessors
func (am *AppManager) IsInitialized() bool           { return am.initialized.Get() }
func (am *AppManager) IsRunning() bool               { return am.running.Get() }
func (am *AppManager) GetEngine() *transition.Router  { return am.engine }
func (am *AppManager) GetAppID() string              { return am.config.AppID }
