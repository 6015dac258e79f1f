package packet

// Opcode families consumed and produced by the simulation core. 0x5000 is
// the plaintext handshake frame carrying the cipher seed.
const (
	S_OPCODE_HANDSHAKE uint16 = 0x5000

	C_OPCODE_IDENTITY  uint16 = 0x2001
	S_OPCODE_IDENTITY  uint16 = 0x2001
	C_OPCODE_KEEPALIVE uint16 = 0x2002

	C_OPCODE_AUTH_REQUEST  uint16 = 0x6103
	S_OPCODE_AUTH_RESPONSE uint16 = 0xA103

	C_OPCODE_CHARACTER_LIST uint16 = 0x7007
	S_OPCODE_CHARACTER_LIST uint16 = 0xB007
	C_OPCODE_CHARACTER_JOIN uint16 = 0x7001
	S_OPCODE_CHARACTER_JOIN uint16 = 0xB001

	C_OPCODE_LOGOUT_REQUEST  uint16 = 0x7005
	S_OPCODE_LOGOUT_RESPONSE uint16 = 0xB005
	S_OPCODE_LOGOUT_FINISHED uint16 = 0x300A

	C_OPCODE_MOVEMENT uint16 = 0x7021
	S_OPCODE_MOVEMENT uint16 = 0xB021
	C_OPCODE_ROTATION uint16 = 0x7024

	C_OPCODE_PERFORM_ACTION uint16 = 0x7074
	S_OPCODE_ACTION_UPDATE  uint16 = 0xB070

	C_OPCODE_LEVELUP_MASTERY uint16 = 0x70A2
	S_OPCODE_LEVELUP_MASTERY uint16 = 0xB0A2

	C_OPCODE_OPEN_MALL uint16 = 0x7046
	S_OPCODE_OPEN_MALL uint16 = 0xB046

	C_OPCODE_LEARN_SKILL uint16 = 0x70A1
	S_OPCODE_LEARN_SKILL uint16 = 0xB0A1

	S_OPCODE_ENTITY_SPAWN   uint16 = 0x3015
	S_OPCODE_ENTITY_DESPAWN uint16 = 0x3016
	S_OPCODE_ENTITY_UPDATE  uint16 = 0x30BF
	S_OPCODE_STAT_UPDATE    uint16 = 0x303D
	S_OPCODE_EXP_UPDATE     uint16 = 0x3054
	S_OPCODE_LEVELUP_EFFECT uint16 = 0x3057
	S_OPCODE_NOTIFICATION   uint16 = 0x300C
)

// Auth result codes carried by S_OPCODE_AUTH_RESPONSE.
const (
	AuthSuccess     byte = 0x01
	AuthInvalidData byte = 0x02
	AuthServerFull  byte = 0x03
)

// Damage kinds carried by S_OPCODE_ACTION_UPDATE.
const (
	DamageDefault     byte = 0x00
	DamageKillingBlow byte = 0x80
)
