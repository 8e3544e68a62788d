package delve

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

var _ Policy = &LuaPolicy{}

// LuaPolicy delegates the damage formula to a Lua script, so balance changes
// ship as data instead of a rebuild. The script defines
//
//	function calc_attack(ctx)
//	  -- ctx.attacker / ctx.defender: attack, defense, power
//	  -- ctx.defender also carries hp, max_hp
//	  -- ctx.roll: uniform [0,1)
//	  return { hit = true, damage = 3 }
//	end
//
// The VM is not goroutine safe; attacks only resolve on the single-threaded
// resolution phase, which is the only caller.
type LuaPolicy struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewLuaPolicy loads a policy script from disk.
func NewLuaPolicy(path string, log *zap.Logger) (*LuaPolicy, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	if err := vm.DoFile(path); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load combat script %s: %w", path, err)
	}
	return newLuaPolicy(vm, log)
}

// NewLuaPolicyFromString compiles an in-memory policy script.
func NewLuaPolicyFromString(src string, log *zap.Logger) (*LuaPolicy, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	if err := vm.DoString(src); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load combat script: %w", err)
	}
	return newLuaPolicy(vm, log)
}

func newLuaPolicy(vm *lua.LState, log *zap.Logger) (*LuaPolicy, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if vm.GetGlobal("calc_attack") == lua.LNil {
		vm.Close()
		return nil, fmt.Errorf("combat script does not define calc_attack")
	}
	return &LuaPolicy{vm: vm, log: log}, nil
}

func (p *LuaPolicy) Close() {
	p.vm.Close()
}

func (p *LuaPolicy) Resolve(in AttackInput) Outcome {
	fn := p.vm.GetGlobal("calc_attack")

	ctx := p.vm.NewTable()

	atk := p.vm.NewTable()
	atk.RawSetString("attack", lua.LNumber(in.Attacker.Attack))
	atk.RawSetString("defense", lua.LNumber(in.Attacker.Defense))
	atk.RawSetString("power", lua.LNumber(in.Attacker.Power))
	ctx.RawSetString("attacker", atk)

	def := p.vm.NewTable()
	def.RawSetString("attack", lua.LNumber(in.Defender.Attack))
	def.RawSetString("defense", lua.LNumber(in.Defender.Defense))
	def.RawSetString("power", lua.LNumber(in.Defender.Power))
	def.RawSetString("hp", lua.LNumber(in.DefenderHealth.Current))
	def.RawSetString("max_hp", lua.LNumber(in.DefenderHealth.Max))
	ctx.RawSetString("defender", def)

	ctx.RawSetString("roll", lua.LNumber(in.Roll))

	if err := p.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, ctx); err != nil {
		p.log.Error("lua calc_attack error", zap.Error(err))
		return Outcome{Hit: true, Damage: 1}
	}

	result := p.vm.Get(-1)
	p.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		p.log.Error("lua calc_attack returned non-table")
		return Outcome{Hit: true, Damage: 1}
	}

	return Outcome{
		Hit:    rt.RawGetString("hit") == lua.LTrue,
		Damage: int(lua.LVAsNumber(rt.RawGetString("damage"))),
	}
}
