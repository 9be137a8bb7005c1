package profile

import (
	"reflect"
	"testing"

	"unitharden/action"
	"unitharden/setspec"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	actions := []action.ProgramAction{
		action.ReadAction{Path: "/etc/passwd"},
		action.WriteAction{Path: "/var/log/app.log"},
		action.CreateAction{Path: "/run/app.pid"},
		action.NetworkActivityAction{Activity: action.NetworkActivity{
			AF:        setspec.One[action.SocketFamily]("AF_INET"),
			Proto:     setspec.One[action.SocketProtocol]("SOCK_STREAM"),
			Kind:      setspec.One(action.Bind),
			LocalPort: setspec.CountableOne(setspec.PortDomain, action.Port(8080)),
		}},
		action.WriteExecuteMemoryMappingAction{},
		action.SetRealtimeSchedulerAction{},
		action.WakeupAction{},
		action.MknodSpecialAction{},
		action.SetAlarmAction{},
		action.SyscallsAction{Names: setspec.Some([]string{"openat", "read", "write"})},
	}

	data, err := Serialize(actions)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !reflect.DeepEqual(actions, got) {
		t.Errorf("round trip mismatch:\n got: %+v\nwant: %+v", got, actions)
	}
}

func TestDeserializeRejectsBadMagic(t *testing.T) {
	_, err := Deserialize([]byte{0, 0, 0, 0, 0, 1})
	if err == nil {
		t.Fatal("expected an error for bad magic")
	}
}

func TestDeserializeRejectsFutureVersion(t *testing.T) {
	data, err := Serialize(nil)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	data[4] = 0xff
	data[5] = 0xff
	if _, err := Deserialize(data); err == nil {
		t.Fatal("expected an error for an unsupported version")
	}
}

func TestMergeDedupsAdjacentAcrossRuns(t *testing.T) {
	run1 := []action.ProgramAction{action.ReadAction{Path: "/tmp/x"}}
	run2 := []action.ProgramAction{action.ReadAction{Path: "/tmp/x"}, action.WriteAction{Path: "/tmp/y"}}
	merged := Merge(run1, run2)
	want := []action.ProgramAction{action.ReadAction{Path: "/tmp/x"}, action.WriteAction{Path: "/tmp/y"}}
	if !reflect.DeepEqual(merged, want) {
		t.Errorf("Merge() = %+v, want %+v", merged, want)
	}
}
