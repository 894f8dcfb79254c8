// Package scenario defines the fixed instruction catalogue of the scenario VM:
// opcode numbers, the typed operand elements, and one struct per instruction.
// The byte-level serialization of each opcode is owned by the VM's format
// definition and is not part of this package.
package scenario

import "fmt"

// Opcode is the numeric tag of an instruction kind in the compiled binary form.
type Opcode uint8

const (
	OpEXIT Opcode = 0x00

	OpSGET      Opcode = 0x81
	OpSSET      Opcode = 0x82
	OpWAIT      Opcode = 0x83
	OpMSGINIT   Opcode = 0x85
	OpMSGSET    Opcode = 0x86
	OpMSGWAIT   Opcode = 0x87
	OpMSGSIGNAL Opcode = 0x88
	OpMSGSYNC   Opcode = 0x89
	OpMSGCLOSE  Opcode = 0x8A

	OpSELECT   Opcode = 0x8D
	OpWIPE     Opcode = 0x8E
	OpWIPEWAIT Opcode = 0x8F

	OpBGMPLAY   Opcode = 0x90
	OpBGMSTOP   Opcode = 0x91
	OpBGMVOL    Opcode = 0x92
	OpBGMWAIT   Opcode = 0x93
	OpBGMSYNC   Opcode = 0x94
	OpSEPLAY    Opcode = 0x95
	OpSESTOP    Opcode = 0x96
	OpSESTOPALL Opcode = 0x97
	OpSEVOL     Opcode = 0x98
	OpSEPAN     Opcode = 0x99
	OpSEWAIT    Opcode = 0x9A
	OpSEONCE    Opcode = 0x9B
	OpVOICEPLAY Opcode = 0x9C
	OpVOICESTOP Opcode = 0x9D
	OpVOICEWAIT Opcode = 0x9E
	OpSYSSE     Opcode = 0x9F

	OpSAVEINFO  Opcode = 0xA0
	OpAUTOSAVE  Opcode = 0xA1
	OpEVBEGIN   Opcode = 0xA2
	OpEVEND     Opcode = 0xA3
	OpRESUMESET Opcode = 0xA4
	OpRESUME    Opcode = 0xA5
	OpSYSCALL   Opcode = 0xA6

	OpTROPHY Opcode = 0xB0
	OpUNLOCK Opcode = 0xB1

	OpLAYERINIT   Opcode = 0xC0
	OpLAYERLOAD   Opcode = 0xC1
	OpLAYERUNLOAD Opcode = 0xC2
	OpLAYERCTRL   Opcode = 0xC3
	OpLAYERWAIT   Opcode = 0xC4
	OpLAYERSWAP   Opcode = 0xC5
	OpLAYERSELECT Opcode = 0xC6
	OpMOVIEWAIT   Opcode = 0xC7
	OpTRANSSET    Opcode = 0xC9
	OpTRANSWAIT   Opcode = 0xCA
	OpPAGEBACK    Opcode = 0xCB
	OpPLANESELECT Opcode = 0xCC
	OpPLANECLEAR  Opcode = 0xCD
	OpMASKLOAD    Opcode = 0xCE
	OpMASKUNLOAD  Opcode = 0xCF

	OpCHARS     Opcode = 0xE0
	OpTIPSGET   Opcode = 0xE1
	OpQUIZ      Opcode = 0xE2
	OpSHOWCHARS Opcode = 0xE3
	OpNOTIFYSET Opcode = 0xE4

	OpDEBUGOUT Opcode = 0xFF
)

// opcodeNames maps each opcode to its source mnemonic.
var opcodeNames = map[Opcode]string{
	OpEXIT:        "EXIT",
	OpSGET:        "SGET",
	OpSSET:        "SSET",
	OpWAIT:        "WAIT",
	OpMSGINIT:     "MSGINIT",
	OpMSGSET:      "MSGSET",
	OpMSGWAIT:     "MSGWAIT",
	OpMSGSIGNAL:   "MSGSIGNAL",
	OpMSGSYNC:     "MSGSYNC",
	OpMSGCLOSE:    "MSGCLOSE",
	OpSELECT:      "SELECT",
	OpWIPE:        "WIPE",
	OpWIPEWAIT:    "WIPEWAIT",
	OpBGMPLAY:     "BGMPLAY",
	OpBGMSTOP:     "BGMSTOP",
	OpBGMVOL:      "BGMVOL",
	OpBGMWAIT:     "BGMWAIT",
	OpBGMSYNC:     "BGMSYNC",
	OpSEPLAY:      "SEPLAY",
	OpSESTOP:      "SESTOP",
	OpSESTOPALL:   "SESTOPALL",
	OpSEVOL:       "SEVOL",
	OpSEPAN:       "SEPAN",
	OpSEWAIT:      "SEWAIT",
	OpSEONCE:      "SEONCE",
	OpVOICEPLAY:   "VOICEPLAY",
	OpVOICESTOP:   "VOICESTOP",
	OpVOICEWAIT:   "VOICEWAIT",
	OpSYSSE:       "SYSSE",
	OpSAVEINFO:    "SAVEINFO",
	OpAUTOSAVE:    "AUTOSAVE",
	OpEVBEGIN:     "EVBEGIN",
	OpEVEND:       "EVEND",
	OpRESUMESET:   "RESUMESET",
	OpRESUME:      "RESUME",
	OpSYSCALL:     "SYSCALL",
	OpTROPHY:      "TROPHY",
	OpUNLOCK:      "UNLOCK",
	OpLAYERINIT:   "LAYERINIT",
	OpLAYERLOAD:   "LAYERLOAD",
	OpLAYERUNLOAD: "LAYERUNLOAD",
	OpLAYERCTRL:   "LAYERCTRL",
	OpLAYERWAIT:   "LAYERWAIT",
	OpLAYERSWAP:   "LAYERSWAP",
	OpLAYERSELECT: "LAYERSELECT",
	OpMOVIEWAIT:   "MOVIEWAIT",
	OpTRANSSET:    "TRANSSET",
	OpTRANSWAIT:   "TRANSWAIT",
	OpPAGEBACK:    "PAGEBACK",
	OpPLANESELECT: "PLANESELECT",
	OpPLANECLEAR:  "PLANECLEAR",
	OpMASKLOAD:    "MASKLOAD",
	OpMASKUNLOAD:  "MASKUNLOAD",
	OpCHARS:       "CHARS",
	OpTIPSGET:     "TIPSGET",
	OpQUIZ:        "QUIZ",
	OpSHOWCHARS:   "SHOWCHARS",
	OpNOTIFYSET:   "NOTIFYSET",
	OpDEBUGOUT:    "DEBUGOUT",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(0x%02X)", uint8(o))
}
