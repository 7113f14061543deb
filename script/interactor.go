package script

import (
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Interactor runs interact/attack handlers defined in a Tengo script. The
// script must define `on_interact` and `on_attack` functions taking the host
// table and a persistent state map:
//
//	on_interact := func(host, state) { host.open_door() }
//	on_attack := func(host, state) { state.swings += 1 }
//
// Triggers are inert: handler errors are logged and swallowed, never
// propagated to the replay path.
type Interactor struct {
	compiled *tengo.Compiled
	state    *tengo.Map
	host     *tengo.ImmutableMap
	nearby   bool
}

const dispatchScript = `
if __action == "interact" {
	on_interact(__host, __state)
} else if __action == "attack" {
	on_attack(__host, __state)
}
`

// Funcs are host callbacks exposed to the script under their given names.
type Funcs map[string]func()

// NewInteractor compiles the script source with the host callbacks bound.
func NewInteractor(src []byte, funcs Funcs) (*Interactor, error) {
	s := tengo.NewScript([]byte(string(src) + "\n" + dispatchScript))
	_ = s.Add("__action", "")
	_ = s.Add("__host", map[string]any{})
	_ = s.Add("__state", map[string]any{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile interactor: %w", err)
	}

	values := map[string]tengo.Object{}
	for name, fn := range funcs {
		fn := fn
		values[name] = &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
			fn()
			return tengo.UndefinedValue, nil
		}}
	}

	return &Interactor{
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		host:     &tengo.ImmutableMap{Value: values},
	}, nil
}

// TriggerInteract runs the script's on_interact handler.
func (i *Interactor) TriggerInteract() {
	i.run("interact")
}

// TriggerAttack runs the script's on_attack handler.
func (i *Interactor) TriggerAttack() {
	i.run("attack")
}

// HasInteractableNearby reports the host-set proximity flag.
func (i *Interactor) HasInteractableNearby() bool {
	return i != nil && i.nearby
}

// SetNearby is called by the host when an interactable enters or leaves
// range.
func (i *Interactor) SetNearby(nearby bool) {
	if i != nil {
		i.nearby = nearby
	}
}

func (i *Interactor) run(action string) {
	if i == nil || i.compiled == nil {
		return
	}
	if err := i.compiled.Set("__action", action); err != nil {
		log.Printf("script: set action: %v", err)
		return
	}
	if err := i.compiled.Set("__host", i.host); err != nil {
		log.Printf("script: set host: %v", err)
		return
	}
	if err := i.compiled.Set("__state", i.state); err != nil {
		log.Printf("script: set state: %v", err)
		return
	}
	if err := i.compiled.Run(); err != nil {
		log.Printf("script: %s handler error: %v", action, err)
	}
}
