package pipewire

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

const pwInterfaceNode = "PipeWire:Interface:Node"

// media classes that can be recorded from
const (
	pwAudioSink         = "Audio/Sink"
	pwAudioSource       = "Audio/Source"
	pwStreamOutputAudio = "Stream/Output/Audio"
)

type pwObject struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
	Info struct {
		Props struct {
			NodeName   string `json:"node.name"`
			MediaClass string `json:"media.class"`
		} `json:"props"`
	} `json:"info"`
}

func pwDump(ctx context.Context) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "pw-dump")
	cmd.Stderr = os.Stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, errors.Wrap(err, "failed to run pw-dump")
	}
	return out, nil
}

// parseNodes returns the names of every recordable node in a pw-dump.
func parseNodes(dump []byte) ([]string, error) {
	var objs []pwObject
	if err := json.Unmarshal(dump, &objs); err != nil {
		return nil, errors.Wrap(err, "failed to parse pw-dump output")
	}

	names := make([]string, 0, len(objs))
	for _, o := range objs {
		if o.Type != pwInterfaceNode || o.Info.Props.NodeName == "" {
			continue
		}

		switch o.Info.Props.MediaClass {
		case pwAudioSink, pwAudioSource, pwStreamOutputAudio:
			names = append(names, o.Info.Props.NodeName)
		}
	}

	return names, nil
}
