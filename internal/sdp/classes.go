package sdp

import "fmt"

// Audio-related service class identifiers (Bluetooth assigned numbers).
const (
	ClassHeadset        uint16 = 0x1108
	ClassAudioSource    uint16 = 0x110A
	ClassAudioSink      uint16 = 0x110B
	ClassAVRemoteTarget uint16 = 0x110C
	ClassAdvancedAudio  uint16 = 0x110D
	ClassAVRemote       uint16 = 0x110E
	ClassHeadsetAG      uint16 = 0x1112
	ClassHandsfree      uint16 = 0x111E
	ClassHandsfreeAG    uint16 = 0x111F
	ClassGenericAudio   uint16 = 0x1203
)

// Protocol UUIDs used in protocol descriptor lists.
const (
	ProtoRFCOMM uint16 = 0x0003
	ProtoL2CAP  uint16 = 0x0100
)

// Universal attribute identifiers interpreted by this package.
const (
	AttrServiceClassIDList     uint16 = 0x0001
	AttrProtocolDescriptorList uint16 = 0x0004
)

// Service discovery category UUIDs queried during resolution, in string form
// as the adapter expects them.
var (
	GenericAudioUUID  = CategoryUUID(ClassGenericAudio)
	AdvancedAudioUUID = CategoryUUID(ClassAdvancedAudio)
	AVRemoteUUID      = CategoryUUID(ClassAVRemote)
)

// CategoryUUID expands a 16-bit service class to its full UUID string on the
// Bluetooth base.
func CategoryUUID(class uint16) string {
	return fmt.Sprintf("0000%04x-0000-1000-8000-00805f9b34fb", class)
}
