package blocks

import (
	"propc/pkg/generator"
	"propc/pkg/workspace"
)

const missingSoundImpact = "Missing sound impact sensor initialize block!"

var pingUnits = map[string]string{
	"CM":     "ping_cm",
	"INCHES": "ping_inches",
	"TICKS":  "ping",
}

func registerSensors(r *generator.Registry) {
	r.Statement("sound_impact_run", generator.StatementFunc(func(ctx *generator.Context, b *workspace.Block) (string, error) {
		pin, err := pinOf(ctx, b)
		if err != nil {
			return "", err
		}
		ctx.Definitions.Set("sound_impact", `#include "soundimpact.h"`)
		ctx.GlobalVars.Set("sound_impact", "int *soundimpactcog;")
		ctx.Setups.Set("sound_impact", "soundimpactcog = soundImpact_run("+pin+");")
		return "", nil
	}))

	r.Value("sound_impact_get", generator.ValueFunc(func(ctx *generator.Context, b *workspace.Block) (generator.Expr, error) {
		if !ctx.Workspace().HasBlockOfType("sound_impact_run") {
			return generator.Expr{}, generator.Errorf(missingSoundImpact)
		}
		return generator.E("soundImpact_getCount()", generator.OrderUnaryPostfix), nil
	}))
	r.OutputType("sound_impact_get", intType)
	r.Check("sound_impact_get", checkSoundImpact)

	r.Statement("sound_impact_end", generator.StatementFunc(func(ctx *generator.Context, b *workspace.Block) (string, error) {
		if !ctx.Workspace().HasBlockOfType("sound_impact_run") {
			return "", generator.Errorf(missingSoundImpact)
		}
		return "soundImpact_end(soundimpactcog);\n", nil
	}))
	r.Check("sound_impact_end", checkSoundImpact)

	r.Value("sensor_ping", generator.ValueFunc(func(ctx *generator.Context, b *workspace.Block) (generator.Expr, error) {
		unit := b.Field("UNIT")
		if unit == "" {
			unit = "CM"
		}
		fn, ok := pingUnits[unit]
		if !ok {
			return generator.Expr{}, generator.Errorf("Unknown distance unit %q", unit)
		}
		pin, err := pinOf(ctx, b)
		if err != nil {
			return generator.Expr{}, err
		}
		ctx.Definitions.Set("ping", `#include "ping.h"`)
		return generator.E(fn+"("+pin+")", generator.OrderUnaryPostfix), nil
	}))
	r.OutputType("sensor_ping", intType)

	r.Statement("servo_move", generator.StatementFunc(func(ctx *generator.Context, b *workspace.Block) (string, error) {
		pin, err := pinOf(ctx, b)
		if err != nil {
			return "", err
		}
		angle, err := ctx.ValueOr(b, "ANGLE", generator.OrderMultiplicative, "0")
		if err != nil {
			return "", err
		}
		ctx.Definitions.Set("servo", `#include "servo.h"`)
		return "servo_angle(" + pin + ", " + angle + " * 10);\n", nil
	}))
}

func checkSoundImpact(ws *workspace.Workspace, b *workspace.Block) *generator.Diagnostic {
	if ws.HasBlockOfType("sound_impact_run") {
		return nil
	}
	return generator.Warningf(missingSoundImpact)
}
