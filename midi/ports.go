package midi

import gomidi "gitlab.com/gomidi/midi/v2"

// Ports lists the MIDI port names visible to the driver.
func Ports() (ins, outs []string) {
	for _, p := range gomidi.GetInPorts() {
		ins = append(ins, p.String())
	}
	for _, p := range gomidi.GetOutPorts() {
		outs = append(outs, p.String())
	}
	return ins, outs
}
