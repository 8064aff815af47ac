package nodes

import "github.com/flowforge/engine/internal/registry"

// RegisterBuiltins populates reg with the engine's built-in node
// catalog (§13). Plugin hosts call the same registry.Registry.Register
// method afterward to add their own kinds; registration is idempotent,
// so calling RegisterBuiltins more than once is harmless.
func RegisterBuiltins(reg *registry.Registry) {
	reg.Register(StartActionType, newStartDefine(), registry.RunnerFactoryFunc(newStartRunner))
	reg.Register(EndActionType, newEndDefine(), registry.RunnerFactoryFunc(newEndRunner))
	reg.Register(SetVariablesActionType, newSetVariablesDefine(), registry.RunnerFactoryFunc(newSetVariablesRunner))
	reg.Register(ConditionActionType, newConditionDefine(), registry.RunnerFactoryFunc(newConditionRunner))
	reg.Register(HTTPRequestActionType, newHTTPRequestDefine(), registry.RunnerFactoryFunc(newHTTPRequestRunner))
	reg.Register(NotifyActionType, newNotifyDefine(), registry.RunnerFactoryFunc(newNotifyRunner))
	reg.Register(WaitActionType, newWaitDefine(), registry.RunnerFactoryFunc(newWaitRunner))
	reg.Register(AggregatorActionType, newAggregatorDefine(), registry.RunnerFactoryFunc(newAggregatorRunner))
}
