package modcore

import (
	"errors"
	"fmt"
	"testing"
)

func TestEnv_SetTags(t *testing.T) {
	var e Env
	for _, test := range []struct {
		evar, key, val string
	}{
		{"", "", ""},
		{"XILINX", "XILINX", ""},
		{"XILINX=/opt/Xilinx", "XILINX", "/opt/Xilinx"},
		{"A=b=c", "A", "b=c"},
		{"=bar", "", "bar"},
	} {
		e.SetTags(test.evar)
		if v, ok := e.Tag(test.key); !ok {
			t.Errorf("%q: tag '%s' not set", test.evar, test.key)
		} else if v != test.val {
			t.Errorf("%q: tag '%s' has value '%s'", test.evar, test.key, v)
		}
	}
	if _, err := e.ExecEnv(); !errors.Is(err, NonXEnvKeys{}) {
		t.Errorf("empty key not reported: %v", err)
	}
}

func TestEnv_Sub(t *testing.T) {
	var base Env
	base.SetTag("PATH", "/usr/bin")
	base.SetTag("HOME", "/home/hopper")
	sub := base.Sub()
	sub.SetTag("PATH", "/opt/Xilinx/bin:/usr/bin")
	sub.DelTag("HOME")
	if v, _ := base.Tag("PATH"); v != "/usr/bin" {
		t.Errorf("sub env changed parent PATH to '%s'", v)
	}
	if _, ok := sub.Tag("HOME"); ok {
		t.Error("deleted tag still visible in sub env")
	}
	if _, ok := base.Tag("HOME"); !ok {
		t.Error("deleting in sub env removed parent tag")
	}
}

func ExampleEnv_ExecEnv() {
	var e Env
	e.SetTag("PATH", "/usr/bin")
	e.SetTag("LANG", "C")
	sub := e.Sub()
	sub.SetTag("PATH", "/opt/Xilinx/Vivado/bin:/usr/bin")
	xenv, _ := sub.ExecEnv()
	fmt.Println(xenv)
	xenv, _ = e.ExecEnv()
	fmt.Println(xenv)
	// Output:
	// [LANG=C PATH=/opt/Xilinx/Vivado/bin:/usr/bin]
	// [LANG=C PATH=/usr/bin]
}

func TestEnv_ExecEnv_empty(t *testing.T) {
	var e Env
	xenv, err := e.ExecEnv()
	if err != nil {
		t.Fatal(err)
	}
	if xenv == nil || len(xenv) != 0 {
		t.Errorf("empty env gives %#v", xenv)
	}
	sub := e.Sub()
	sub.SetTag("PATH", "/opt/Xilinx/bin")
	sub.DelTag("PATH")
	if xenv, _ := sub.ExecEnv(); xenv == nil || len(xenv) != 0 {
		t.Errorf("sub env gives %#v", xenv)
	}
}
