// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package echo

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/jchmura/jmeter-snmp/cmd/trapsampler/command"
	"github.com/jchmura/jmeter-snmp/comp/core/config"
	"github.com/jchmura/jmeter-snmp/pkg/snmp/testutils"
	"github.com/jchmura/jmeter-snmp/pkg/snmp/traps"
	"github.com/jchmura/jmeter-snmp/pkg/util/fxutil"
)

func TestReflectorConfig(t *testing.T) {
	params := &cliParams{
		listen:    ":1162",
		reply:     "10.0.0.5:1163",
		community: "private",
		delay:     20 * time.Millisecond,
	}
	cfg, err := params.reflectorConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Listen.Address)
	assert.Equal(t, uint16(1162), cfg.Listen.Port)
	assert.Equal(t, "private", cfg.Listen.Community)
	assert.Equal(t, "10.0.0.5", cfg.Reply.Address)
	assert.Equal(t, uint16(1163), cfg.Reply.Port)
	assert.Equal(t, "private", cfg.Reply.Community)
	assert.Equal(t, 20*time.Millisecond, cfg.Delay)
}

func TestReflectorConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		params cliParams
		errMsg string
	}{
		{"no port", cliParams{listen: "0.0.0.0", reply: "127.0.0.1:162"}, "invalid --listen address"},
		{"port zero", cliParams{listen: "0.0.0.0:0", reply: "127.0.0.1:162"}, "invalid --listen port"},
		{"port too big", cliParams{listen: "0.0.0.0:1162", reply: "127.0.0.1:70000"}, "invalid --reply port"},
		{"negative delay", cliParams{listen: "0.0.0.0:1162", reply: "127.0.0.1:162", delay: -time.Second}, "--delay must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.params.reflectorConfig()
			require.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestCommandRequiresReply(t *testing.T) {
	cmd := command.MakeCommand([]command.SubcommandFactory{Commands})
	cmd.SetArgs([]string{"echo"})
	cmd.SetErr(&bytes.Buffer{})
	require.ErrorContains(t, cmd.Execute(), `required flag(s) "reply" not set`)
}

func TestStartReflector(t *testing.T) {
	listenPort, err := testutils.GetFreePort()
	require.NoError(t, err)
	replyPort, err := testutils.GetFreePort()
	require.NoError(t, err)

	params := &cliParams{
		listen:    "127.0.0.1:" + strconv.Itoa(int(listenPort)),
		reply:     "127.0.0.1:" + strconv.Itoa(int(replyPort)),
		community: "public",
	}
	reflectorConfig, err := params.reflectorConfig()
	require.NoError(t, err)

	// The reflector holds the listening port while the app runs.
	fxutil.Test[config.Component](t,
		fx.Supply(reflectorConfig),
		fx.Supply(config.Params{}),
		config.MockModule(),
		fx.Invoke(startReflector),
	)

	_, err = traps.StartCorrelationListener(traps.ListenerConfig{Address: "127.0.0.1", Port: listenPort})
	require.Error(t, err)
}

func TestHelpDescribesReflectedTrap(t *testing.T) {
	echoCmd := Commands(&command.GlobalParams{})[0]
	assert.NotContains(t, echoCmd.Long, "unchanged")
	assert.Contains(t, echoCmd.Long, "sysUpTime")
}
