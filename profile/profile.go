// Package profile persists ProgramAction sequences between profiling runs,
// so the results of tracing a service across several representative
// workloads can be merged before resolution.
package profile

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"reflect"

	"unitharden/action"
	"unitharden/errors"
)

// magic identifies the container format; version gates decoder
// compatibility. encoding/gob is the one ambient concern this repository
// resolves with the standard library rather than a pack dependency: the
// retrieved corpus's serialization options (flatbuffers) require schema
// codegen this tool cannot run, and gob already round-trips Go interface
// values (registered below) without a schema at all.
const (
	magic          uint32 = 0x55484e54 // "UHNT"
	currentVersion uint16 = 1
)

func init() {
	gob.Register(action.ReadAction{})
	gob.Register(action.WriteAction{})
	gob.Register(action.CreateAction{})
	gob.Register(action.NetworkActivityAction{})
	gob.Register(action.WriteExecuteMemoryMappingAction{})
	gob.Register(action.SetRealtimeSchedulerAction{})
	gob.Register(action.WakeupAction{})
	gob.Register(action.MknodSpecialAction{})
	gob.Register(action.SetAlarmAction{})
	gob.Register(action.SyscallsAction{})
}

// Serialize encodes actions into the versioned binary container.
func Serialize(actions []action.ProgramAction) ([]byte, error) {
	var body bytes.Buffer
	if err := gob.NewEncoder(&body).Encode(actions); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "profile.Serialize")
	}

	var out bytes.Buffer
	if err := binary.Write(&out, binary.BigEndian, magic); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "profile.Serialize")
	}
	if err := binary.Write(&out, binary.BigEndian, currentVersion); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "profile.Serialize")
	}
	out.Write(body.Bytes())
	return out.Bytes(), nil
}

// Deserialize decodes a profile container produced by Serialize.
func Deserialize(data []byte) ([]action.ProgramAction, error) {
	r := bytes.NewReader(data)
	var m uint32
	var v uint16
	if err := binary.Read(r, binary.BigEndian, &m); err != nil {
		return nil, errors.ErrProfileBadMagic
	}
	if m != magic {
		return nil, errors.ErrProfileBadMagic
	}
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return nil, errors.ErrProfileBadMagic
	}
	if v != currentVersion {
		return nil, errors.ErrProfileUnsupportedVersion
	}

	var actions []action.ProgramAction
	if err := gob.NewDecoder(r).Decode(&actions); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "profile.Deserialize")
	}
	return actions, nil
}

// Merge concatenates action sequences from multiple profiling runs and
// collapses adjacent duplicates, the same discipline the summarizer applies
// within a single run, so merging repeated workloads doesn't inflate the
// result.
func Merge(runs ...[]action.ProgramAction) []action.ProgramAction {
	var merged []action.ProgramAction
	for _, run := range runs {
		merged = append(merged, run...)
	}
	return dedupAdjacent(merged)
}

func dedupAdjacent(acts []action.ProgramAction) []action.ProgramAction {
	if len(acts) == 0 {
		return acts
	}
	out := acts[:1]
	for _, a := range acts[1:] {
		if reflect.DeepEqual(out[len(out)-1], a) {
			continue
		}
		out = append(out, a)
	}
	return out
}
