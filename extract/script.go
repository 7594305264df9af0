package extract

import (
	"errors"
	"fmt"
	"time"

	"github.com/robertkrimen/otto"
	"go.uber.org/zap"
)

// ScriptTimeout bounds a single script evaluation.
var ScriptTimeout = time.Second

var errHalt = errors.New("script timed out")

// CheckScript compiles src so that broken declaration tables fail at load time.
func CheckScript(src string) error {
	if _, err := otto.New().Compile("", src); err != nil {
		return fmt.Errorf("compile script: %w", err)
	}

	return nil
}

// runScript evaluates src once per value with the value bound to `value`.
// The completion value may be a string, an array of strings, or
// null/undefined to drop the value.
func runScript(src string, values []string) []string {
	var out []string
	for _, v := range values {
		vm := otto.New()
		if err := vm.Set("value", v); err != nil {
			zap.L().Warn("bind script value failed", zap.Error(err))
			return nil
		}

		res, err := evalScript(vm, src)
		if err != nil {
			zap.L().Warn("extract script failed", zap.String("value", v), zap.Error(err))
			return nil
		}

		out = append(out, exportStrings(res)...)
	}

	return out
}

// evalScript runs src, interrupting it once ScriptTimeout elapses.
func evalScript(vm *otto.Otto, src string) (res otto.Value, err error) {
	vm.Interrupt = make(chan func(), 1)
	timer := time.AfterFunc(ScriptTimeout, func() {
		vm.Interrupt <- func() {
			panic(errHalt)
		}
	})

	defer func() {
		timer.Stop()
		if p := recover(); p != nil {
			if p == errHalt {
				err = fmt.Errorf("%w after %s", errHalt, ScriptTimeout)
				return
			}
			panic(p)
		}
	}()

	return vm.Run(src)
}

func exportStrings(v otto.Value) []string {
	switch {
	case v.IsUndefined(), v.IsNull():
		return nil
	case v.IsString(), v.IsNumber(), v.IsBoolean():
		return []string{v.String()}
	}

	exported, err := v.Export()
	if err != nil {
		return nil
	}

	switch e := exported.(type) {
	case []string:
		return e
	case []interface{}:
		out := make([]string, 0, len(e))
		for _, item := range e {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	}

	return []string{v.String()}
}
