package scenario

// Instruction is one fully validated scenario instruction, ready for binary
// serialization. It is produced only by successful lowering; there is no
// partially constructed form.
type Instruction interface {
	Opcode() Opcode
}

// Exit stops the VM when Arg1 is zero; any other Arg1 makes it a no-op.
type Exit struct {
	Arg1 uint8
	Arg2 NumberSpec
}

// Sget reads a persistent storage slot into Dest.
type Sget struct {
	Dest       Register
	SlotNumber NumberSpec
}

// Sset writes a value to a persistent storage slot.
type Sset struct {
	SlotNumber NumberSpec
	Value      NumberSpec
}

// Wait delays execution for WaitAmount ticks. A nonzero AllowInterrupt lets
// the advance button skip the wait.
type Wait struct {
	AllowInterrupt uint8
	WaitAmount     NumberSpec
}

// MsgInit sets the messagebox style and text layout.
type MsgInit struct {
	MessageboxStyle NumberSpec
}

// MsgSet shows a message. A nonzero AutoWait blocks execution until the
// message finishes; otherwise MsgWait can synchronize with it later.
type MsgSet struct {
	MsgId    MessageId
	AutoWait uint8
	Text     string
}

// MsgWait waits for the current message to reach SectionNum; -1 waits for the
// message to finish fully.
type MsgWait struct {
	SectionNum NumberSpec
}

// MsgSignal signals the in-message sync point.
type MsgSignal struct{}

type MsgSync struct {
	Arg1 NumberSpec
	Arg2 NumberSpec
}

// MsgClose closes the messagebox. A nonzero WaitForClose waits for the close
// animation to finish.
type MsgClose struct {
	WaitForClose uint8
}

// Select shows a choice menu and stores the selected variant index in Dest.
type Select struct {
	ChoiceSetBase        uint16
	ChoiceIndex          uint16
	Dest                 Register
	ChoiceVisibilityMask NumberSpec
	ChoiceTitle          string
	Variants             StringArray
}

type Wipe struct {
	Arg1     NumberSpec
	Arg2     NumberSpec
	WipeTime NumberSpec
	Params   BitmaskNumberArray
}

type WipeWait struct{}

// BgmPlay starts a BGM track. A nonzero NoRepeat stops the track from
// restarting when it finishes.
type BgmPlay struct {
	BgmDataId  NumberSpec
	FadeInTime NumberSpec
	NoRepeat   NumberSpec
	Volume     NumberSpec
}

// BgmStop stops the current BGM track.
type BgmStop struct {
	FadeOutTime NumberSpec
}

// BgmVol changes the volume of the current BGM track.
type BgmVol struct {
	Volume     NumberSpec
	FadeInTime NumberSpec
}

// BgmWait waits for the BGM track to reach TargetStatus.
type BgmWait struct {
	TargetStatus NumberSpec
}

// BgmSync waits for the BGM track to reach SyncTime.
type BgmSync struct {
	SyncTime NumberSpec
}

// SePlay starts a sound-effect track in the given slot.
type SePlay struct {
	SeSlot     NumberSpec
	SeDataId   NumberSpec
	FadeInTime NumberSpec
	NoRepeat   NumberSpec
	Volume     NumberSpec
	Pan        NumberSpec
	PlaySpeed  NumberSpec
}

// SeStop stops the sound-effect track in the given slot.
type SeStop struct {
	SeSlot      NumberSpec
	FadeOutTime NumberSpec
}

// SeStopAll stops every sound-effect track.
type SeStopAll struct {
	FadeOutTime NumberSpec
}

// SeVol changes the volume of the sound-effect track in the given slot.
type SeVol struct {
	SeSlot     NumberSpec
	Volume     NumberSpec
	FadeInTime NumberSpec
}

// SePan changes the pan of the sound-effect track in the given slot.
type SePan struct {
	SeSlot     NumberSpec
	Pan        NumberSpec
	FadeInTime NumberSpec
}

// SeWait waits for the sound-effect track in the given slot (-1 for any) to
// reach TargetStatus.
type SeWait struct {
	SeSlot       NumberSpec
	TargetStatus NumberSpec
}

// SeOnce plays a sound effect without reserving a slot.
type SeOnce struct {
	Arg1 NumberSpec
	Arg2 NumberSpec
	Arg3 NumberSpec
	Arg4 NumberSpec
	Arg5 NumberSpec
}

// VoicePlay starts a voice clip by name.
type VoicePlay struct {
	Name   string
	Volume NumberSpec
	Flags  NumberSpec
}

type VoiceStop struct{}

// VoiceWait waits for the playing voice clip to reach TargetStatus.
type VoiceWait struct {
	TargetStatus NumberSpec
}

// SysSe plays a system sound effect.
type SysSe struct {
	Arg1 NumberSpec
	Arg2 NumberSpec
}

// SaveInfo sets the save description shown in the save/load screen at the
// given level (0 - scenario name, 1 - chapter name).
type SaveInfo struct {
	Level NumberSpec
	Info  string
}

// AutoSave saves the game to the autosave slot.
type AutoSave struct{}

type EvBegin struct {
	Arg NumberSpec
}

type EvEnd struct{}

type ResumeSet struct{}

type Resume struct{}

type Syscall struct {
	Arg1 NumberSpec
	Arg2 NumberSpec
}

// Trophy awards the given trophy.
type Trophy struct {
	TrophyId NumberSpec
}

// Unlock unlocks gallery entries (CG, BGM or movie) by index.
type Unlock struct {
	UnlockType    uint8
	UnlockIndices NumberList
}

// LayerInit resets a layer's property values to their initial state.
type LayerInit struct {
	LayerId NumberSpec
}

// LayerLoad loads a user layer. The parameter meaning depends on LayerType.
type LayerLoad struct {
	LayerId            NumberSpec
	LayerType          NumberSpec
	LeaveUninitialized NumberSpec
	Params             BitmaskNumberArray
}

// LayerUnload unloads a user layer after DelayTime.
type LayerUnload struct {
	LayerId   NumberSpec
	DelayTime NumberSpec
}

// LayerCtrl changes a layer property, possibly through a transition. Params
// carries (target value, time, flags, easing parameter).
type LayerCtrl struct {
	LayerId    NumberSpec
	PropertyId NumberSpec
	Params     BitmaskNumberArray
}

// LayerWait waits for the listed property transitions to finish.
type LayerWait struct {
	LayerId        NumberSpec
	WaitProperties NumberList
}

type LayerSwap struct {
	Arg1 NumberSpec
	Arg2 NumberSpec
}

// LayerSelect selects a contiguous range of layers for batch operations.
type LayerSelect struct {
	SelectionStartId NumberSpec
	SelectionEndId   NumberSpec
}

// MovieWait waits for the movie on the given layer to reach TargetStatus.
type MovieWait struct {
	LayerId      NumberSpec
	TargetStatus NumberSpec
}

type TransSet struct {
	Arg1   NumberSpec
	Arg2   NumberSpec
	Arg3   NumberSpec
	Params BitmaskNumberArray
}

type TransWait struct {
	Arg NumberSpec
}

type PageBack struct{}

type PlaneSelect struct {
	PlaneId NumberSpec
}

type PlaneClear struct{}

// MaskLoad loads a transition mask.
type MaskLoad struct {
	MaskDataId NumberSpec
	MaskFlags  NumberSpec
	Transition NumberSpec
}

type MaskUnload struct{}

// Chars unlocks a character in the character screen.
type Chars struct {
	Arg1 NumberSpec
	Arg2 NumberSpec
}

// TipsGet unlocks TIPS entries by id.
type TipsGet struct {
	TipIds NumberList
}

// Quiz shows a quiz prompt and stores the answer in Dest.
type Quiz struct {
	Dest Register
	Arg  NumberSpec
}

// ShowChars shows the characters menu.
type ShowChars struct{}

// NotifySet shows a notification of the given type.
type NotifySet struct {
	Arg NumberSpec
}

// DebugOut prints a printf-style debug message to the console.
type DebugOut struct {
	Format string
	Args   NumberList
}

func (Exit) Opcode() Opcode        { return OpEXIT }
func (Sget) Opcode() Opcode        { return OpSGET }
func (Sset) Opcode() Opcode        { return OpSSET }
func (Wait) Opcode() Opcode        { return OpWAIT }
func (MsgInit) Opcode() Opcode     { return OpMSGINIT }
func (MsgSet) Opcode() Opcode      { return OpMSGSET }
func (MsgWait) Opcode() Opcode     { return OpMSGWAIT }
func (MsgSignal) Opcode() Opcode   { return OpMSGSIGNAL }
func (MsgSync) Opcode() Opcode     { return OpMSGSYNC }
func (MsgClose) Opcode() Opcode    { return OpMSGCLOSE }
func (Select) Opcode() Opcode      { return OpSELECT }
func (Wipe) Opcode() Opcode        { return OpWIPE }
func (WipeWait) Opcode() Opcode    { return OpWIPEWAIT }
func (BgmPlay) Opcode() Opcode     { return OpBGMPLAY }
func (BgmStop) Opcode() Opcode     { return OpBGMSTOP }
func (BgmVol) Opcode() Opcode      { return OpBGMVOL }
func (BgmWait) Opcode() Opcode     { return OpBGMWAIT }
func (BgmSync) Opcode() Opcode     { return OpBGMSYNC }
func (SePlay) Opcode() Opcode      { return OpSEPLAY }
func (SeStop) Opcode() Opcode      { return OpSESTOP }
func (SeStopAll) Opcode() Opcode   { return OpSESTOPALL }
func (SeVol) Opcode() Opcode       { return OpSEVOL }
func (SePan) Opcode() Opcode       { return OpSEPAN }
func (SeWait) Opcode() Opcode      { return OpSEWAIT }
func (SeOnce) Opcode() Opcode      { return OpSEONCE }
func (VoicePlay) Opcode() Opcode   { return OpVOICEPLAY }
func (VoiceStop) Opcode() Opcode   { return OpVOICESTOP }
func (VoiceWait) Opcode() Opcode   { return OpVOICEWAIT }
func (SysSe) Opcode() Opcode       { return OpSYSSE }
func (SaveInfo) Opcode() Opcode    { return OpSAVEINFO }
func (AutoSave) Opcode() Opcode    { return OpAUTOSAVE }
func (EvBegin) Opcode() Opcode     { return OpEVBEGIN }
func (EvEnd) Opcode() Opcode       { return OpEVEND }
func (ResumeSet) Opcode() Opcode   { return OpRESUMESET }
func (Resume) Opcode() Opcode      { return OpRESUME }
func (Syscall) Opcode() Opcode     { return OpSYSCALL }
func (Trophy) Opcode() Opcode      { return OpTROPHY }
func (Unlock) Opcode() Opcode      { return OpUNLOCK }
func (LayerInit) Opcode() Opcode   { return OpLAYERINIT }
func (LayerLoad) Opcode() Opcode   { return OpLAYERLOAD }
func (LayerUnload) Opcode() Opcode { return OpLAYERUNLOAD }
func (LayerCtrl) Opcode() Opcode   { return OpLAYERCTRL }
func (LayerWait) Opcode() Opcode   { return OpLAYERWAIT }
func (LayerSwap) Opcode() Opcode   { return OpLAYERSWAP }
func (LayerSelect) Opcode() Opcode { return OpLAYERSELECT }
func (MovieWait) Opcode() Opcode   { return OpMOVIEWAIT }
func (TransSet) Opcode() Opcode    { return OpTRANSSET }
func (TransWait) Opcode() Opcode   { return OpTRANSWAIT }
func (PageBack) Opcode() Opcode    { return OpPAGEBACK }
func (PlaneSelect) Opcode() Opcode { return OpPLANESELECT }
func (PlaneClear) Opcode() Opcode  { return OpPLANECLEAR }
func (MaskLoad) Opcode() Opcode    { return OpMASKLOAD }
func (MaskUnload) Opcode() Opcode  { return OpMASKUNLOAD }
func (Chars) Opcode() Opcode       { return OpCHARS }
func (TipsGet) Opcode() Opcode     { return OpTIPSGET }
func (Quiz) Opcode() Opcode        { return OpQUIZ }
func (ShowChars) Opcode() Opcode   { return OpSHOWCHARS }
func (NotifySet) Opcode() Opcode   { return OpNOTIFYSET }
func (DebugOut) Opcode() Opcode    { return OpDEBUGOUT }
