package compile

import (
	"sort"

	"gosal/pkg/diag"
	"gosal/pkg/hir"
	"gosal/pkg/scenario"
)

// The catalogue handlers. Instructions with a common operand shape share a
// constructor table; the rest get a dedicated handler. The router over the
// full set is built once at process start and is read-only afterwards.

// noArgOps are instructions without operands.
var noArgOps = map[string]func() scenario.Instruction{
	"MSGSIGNAL": func() scenario.Instruction { return scenario.MsgSignal{} },
	"WIPEWAIT":  func() scenario.Instruction { return scenario.WipeWait{} },
	"VOICESTOP": func() scenario.Instruction { return scenario.VoiceStop{} },
	"AUTOSAVE":  func() scenario.Instruction { return scenario.AutoSave{} },
	"EVEND":     func() scenario.Instruction { return scenario.EvEnd{} },
	"RESUMESET": func() scenario.Instruction { return scenario.ResumeSet{} },
	"RESUME":    func() scenario.Instruction { return scenario.Resume{} },
	"PAGEBACK":  func() scenario.Instruction { return scenario.PageBack{} },
	"PLANECLEAR": func() scenario.Instruction {
		return scenario.PlaneClear{}
	},
	"MASKUNLOAD": func() scenario.Instruction { return scenario.MaskUnload{} },
	"SHOWCHARS":  func() scenario.Instruction { return scenario.ShowChars{} },
}

// numberOps are instructions whose operands are a fixed run of numbers.
var numberOps = map[string]struct {
	labels []string
	build  func([]scenario.NumberSpec) scenario.Instruction
}{
	"SSET": {[]string{"slot_number", "value"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.Sset{SlotNumber: n[0], Value: n[1]}
	}},
	"MSGINIT": {[]string{"messagebox_style"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.MsgInit{MessageboxStyle: n[0]}
	}},
	"MSGWAIT": {[]string{"section_num"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.MsgWait{SectionNum: n[0]}
	}},
	"MSGSYNC": {[]string{"arg1", "arg2"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.MsgSync{Arg1: n[0], Arg2: n[1]}
	}},
	"BGMPLAY": {[]string{"bgm_data_id", "fade_in_time", "no_repeat", "volume"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.BgmPlay{BgmDataId: n[0], FadeInTime: n[1], NoRepeat: n[2], Volume: n[3]}
	}},
	"BGMSTOP": {[]string{"fade_out_time"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.BgmStop{FadeOutTime: n[0]}
	}},
	"BGMVOL": {[]string{"volume", "fade_in_time"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.BgmVol{Volume: n[0], FadeInTime: n[1]}
	}},
	"BGMWAIT": {[]string{"target_status"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.BgmWait{TargetStatus: n[0]}
	}},
	"BGMSYNC": {[]string{"sync_time"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.BgmSync{SyncTime: n[0]}
	}},
	"SEPLAY": {[]string{"se_slot", "se_data_id", "fade_in_time", "no_repeat", "volume", "pan", "play_speed"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.SePlay{SeSlot: n[0], SeDataId: n[1], FadeInTime: n[2], NoRepeat: n[3], Volume: n[4], Pan: n[5], PlaySpeed: n[6]}
	}},
	"SESTOP": {[]string{"se_slot", "fade_out_time"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.SeStop{SeSlot: n[0], FadeOutTime: n[1]}
	}},
	"SESTOPALL": {[]string{"fade_out_time"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.SeStopAll{FadeOutTime: n[0]}
	}},
	"SEVOL": {[]string{"se_slot", "volume", "fade_in_time"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.SeVol{SeSlot: n[0], Volume: n[1], FadeInTime: n[2]}
	}},
	"SEPAN": {[]string{"se_slot", "pan", "fade_in_time"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.SePan{SeSlot: n[0], Pan: n[1], FadeInTime: n[2]}
	}},
	"SEWAIT": {[]string{"se_slot", "target_status"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.SeWait{SeSlot: n[0], TargetStatus: n[1]}
	}},
	"SEONCE": {[]string{"arg1", "arg2", "arg3", "arg4", "arg5"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.SeOnce{Arg1: n[0], Arg2: n[1], Arg3: n[2], Arg4: n[3], Arg5: n[4]}
	}},
	"VOICEWAIT": {[]string{"target_status"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.VoiceWait{TargetStatus: n[0]}
	}},
	"SYSSE": {[]string{"arg1", "arg2"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.SysSe{Arg1: n[0], Arg2: n[1]}
	}},
	"EVBEGIN": {[]string{"arg"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.EvBegin{Arg: n[0]}
	}},
	"SYSCALL": {[]string{"arg1", "arg2"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.Syscall{Arg1: n[0], Arg2: n[1]}
	}},
	"TROPHY": {[]string{"trophy_id"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.Trophy{TrophyId: n[0]}
	}},
	"LAYERINIT": {[]string{"layer_id"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.LayerInit{LayerId: n[0]}
	}},
	"LAYERUNLOAD": {[]string{"layer_id", "delay_time"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.LayerUnload{LayerId: n[0], DelayTime: n[1]}
	}},
	"LAYERSWAP": {[]string{"arg1", "arg2"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.LayerSwap{Arg1: n[0], Arg2: n[1]}
	}},
	"LAYERSELECT": {[]string{"selection_start_id", "selection_end_id"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.LayerSelect{SelectionStartId: n[0], SelectionEndId: n[1]}
	}},
	"MOVIEWAIT": {[]string{"layer_id", "target_status"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.MovieWait{LayerId: n[0], TargetStatus: n[1]}
	}},
	"TRANSWAIT": {[]string{"arg"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.TransWait{Arg: n[0]}
	}},
	"PLANESELECT": {[]string{"plane_id"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.PlaneSelect{PlaneId: n[0]}
	}},
	"MASKLOAD": {[]string{"mask_data_id", "mask_flags", "transition"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.MaskLoad{MaskDataId: n[0], MaskFlags: n[1], Transition: n[2]}
	}},
	"CHARS": {[]string{"arg1", "arg2"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.Chars{Arg1: n[0], Arg2: n[1]}
	}},
	"NOTIFYSET": {[]string{"arg"}, func(n []scenario.NumberSpec) scenario.Instruction {
		return scenario.NotifySet{Arg: n[0]}
	}},
}

var defaultRouter = buildDefaultRouter()

// DefaultRouter returns the router over the complete instruction catalogue.
// The returned router is shared and immutable; it is safe to use from
// concurrently running compilation units.
func DefaultRouter() *Router {
	return defaultRouter
}

func buildDefaultRouter() *Router {
	b := NewRouterBuilder()

	// Table-driven registrations go in sorted order so the registration
	// list, and with it suggestion ranking, is identical on every run.
	for _, name := range sortedKeys(noArgOps) {
		b.Add(name, noArgHandler(noArgOps[name]))
	}
	for _, name := range sortedKeys(numberOps) {
		op := numberOps[name]
		b.Add(name, numbersHandler(op.labels, op.build))
	}

	b.Add("EXIT", lowerExit)
	b.Add("SGET", lowerSget)
	b.Add("WAIT", lowerWait)
	b.Add("MSGSET", lowerMsgSet)
	b.Add("MSGCLOSE", lowerMsgClose)
	b.Add("SELECT", lowerSelect)
	b.Add("WIPE", lowerWipe)
	b.Add("VOICEPLAY", lowerVoicePlay)
	b.Add("SAVEINFO", lowerSaveInfo)
	b.Add("UNLOCK", lowerUnlock)
	b.Add("LAYERLOAD", lowerLayerLoad)
	b.Add("LAYERCTRL", lowerLayerCtrl)
	b.Add("LAYERWAIT", lowerLayerWait)
	b.Add("TRANSSET", lowerTransSet)
	b.Add("TIPSGET", lowerTipsGet)
	b.Add("QUIZ", lowerQuiz)
	b.Add("DEBUGOUT", lowerDebugOut)

	return b.Build()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func noArgHandler(build func() scenario.Instruction) HandlerFunc {
	return func(sink *diag.Sink[hir.Location], ctx *LowerCtx, instr hir.InstrId) (scenario.Instruction, bool) {
		r := newArgReader(sink, ctx, instr)
		if !r.finish() {
			return nil, false
		}
		return build(), true
	}
}

func numbersHandler(labels []string, build func([]scenario.NumberSpec) scenario.Instruction) HandlerFunc {
	return func(sink *diag.Sink[hir.Location], ctx *LowerCtx, instr hir.InstrId) (scenario.Instruction, bool) {
		r := newArgReader(sink, ctx, instr)
		numbers := make([]scenario.NumberSpec, len(labels))
		for i, label := range labels {
			numbers[i] = r.number(label)
		}
		if !r.finish() {
			return nil, false
		}
		return build(numbers), true
	}
}

func lowerExit(sink *diag.Sink[hir.Location], ctx *LowerCtx, instr hir.InstrId) (scenario.Instruction, bool) {
	r := newArgReader(sink, ctx, instr)
	arg1 := r.u8("arg1")
	arg2 := r.number("arg2")
	if !r.finish() {
		return nil, false
	}
	return scenario.Exit{Arg1: arg1, Arg2: arg2}, true
}

func lowerSget(sink *diag.Sink[hir.Location], ctx *LowerCtx, instr hir.InstrId) (scenario.Instruction, bool) {
	r := newArgReader(sink, ctx, instr)
	dest := r.register("dest")
	slot := r.number("slot_number")
	if !r.finish() {
		return nil, false
	}
	return scenario.Sget{Dest: dest, SlotNumber: slot}, true
}

func lowerWait(sink *diag.Sink[hir.Location], ctx *LowerCtx, instr hir.InstrId) (scenario.Instruction, bool) {
	r := newArgReader(sink, ctx, instr)
	allowInterrupt := r.u8("allow_interrupt")
	waitAmount := r.number("wait_amount")
	if !r.finish() {
		return nil, false
	}
	return scenario.Wait{AllowInterrupt: allowInterrupt, WaitAmount: waitAmount}, true
}

func lowerMsgSet(sink *diag.Sink[hir.Location], ctx *LowerCtx, instr hir.InstrId) (scenario.Instruction, bool) {
	r := newArgReader(sink, ctx, instr)
	msgId := r.messageId("msg_id")
	autoWait := r.u8("auto_wait")
	text := r.str("text")
	if !r.finish() {
		return nil, false
	}
	return scenario.MsgSet{MsgId: msgId, AutoWait: autoWait, Text: text}, true
}

func lowerMsgClose(sink *diag.Sink[hir.Location], ctx *LowerCtx, instr hir.InstrId) (scenario.Instruction, bool) {
	r := newArgReader(sink, ctx, instr)
	waitForClose := r.u8("wait_for_close")
	if !r.finish() {
		return nil, false
	}
	return scenario.MsgClose{WaitForClose: waitForClose}, true
}

func lowerSelect(sink *diag.Sink[hir.Location], ctx *LowerCtx, instr hir.InstrId) (scenario.Instruction, bool) {
	r := newArgReader(sink, ctx, instr)
	choiceSetBase := r.u16("choice_set_base")
	choiceIndex := r.u16("choice_index")
	dest := r.register("dest")
	visibilityMask := r.number("choice_visibility_mask")
	title := r.str("choice_title")
	variants := r.stringArray("variants")
	if !r.finish() {
		return nil, false
	}
	return scenario.Select{
		ChoiceSetBase:        choiceSetBase,
		ChoiceIndex:          choiceIndex,
		Dest:                 dest,
		ChoiceVisibilityMask: visibilityMask,
		ChoiceTitle:          title,
		Variants:             variants,
	}, true
}

func lowerWipe(sink *diag.Sink[hir.Location], ctx *LowerCtx, instr hir.InstrId) (scenario.Instruction, bool) {
	r := newArgReader(sink, ctx, instr)
	arg1 := r.number("arg1")
	arg2 := r.number("arg2")
	wipeTime := r.number("wipe_time")
	params := r.bitmaskArray("params")
	if !r.finish() {
		return nil, false
	}
	return scenario.Wipe{Arg1: arg1, Arg2: arg2, WipeTime: wipeTime, Params: params}, true
}

func lowerVoicePlay(sink *diag.Sink[hir.Location], ctx *LowerCtx, instr hir.InstrId) (scenario.Instruction, bool) {
	r := newArgReader(sink, ctx, instr)
	name := r.str("name")
	volume := r.number("volume")
	flags := r.number("flags")
	if !r.finish() {
		return nil, false
	}
	return scenario.VoicePlay{Name: name, Volume: volume, Flags: flags}, true
}

func lowerSaveInfo(sink *diag.Sink[hir.Location], ctx *LowerCtx, instr hir.InstrId) (scenario.Instruction, bool) {
	r := newArgReader(sink, ctx, instr)
	level := r.number("level")
	info := r.str("info")
	if !r.finish() {
		return nil, false
	}
	return scenario.SaveInfo{Level: level, Info: info}, true
}

func lowerUnlock(sink *diag.Sink[hir.Location], ctx *LowerCtx, instr hir.InstrId) (scenario.Instruction, bool) {
	r := newArgReader(sink, ctx, instr)
	unlockType := r.u8("unlock_type")
	indices := r.numberList("unlock_indices")
	if !r.finish() {
		return nil, false
	}
	return scenario.Unlock{UnlockType: unlockType, UnlockIndices: indices}, true
}

func lowerLayerLoad(sink *diag.Sink[hir.Location], ctx *LowerCtx, instr hir.InstrId) (scenario.Instruction, bool) {
	r := newArgReader(sink, ctx, instr)
	layerId := r.number("layer_id")
	layerType := r.number("layer_type")
	leaveUninitialized := r.number("leave_uninitialized")
	params := r.bitmaskArray("params")
	if !r.finish() {
		return nil, false
	}
	return scenario.LayerLoad{
		LayerId:            layerId,
		LayerType:          layerType,
		LeaveUninitialized: leaveUninitialized,
		Params:             params,
	}, true
}

func lowerLayerCtrl(sink *diag.Sink[hir.Location], ctx *LowerCtx, instr hir.InstrId) (scenario.Instruction, bool) {
	r := newArgReader(sink, ctx, instr)
	layerId := r.number("layer_id")
	propertyId := r.number("property_id")
	params := r.bitmaskArray("params")
	if !r.finish() {
		return nil, false
	}
	return scenario.LayerCtrl{LayerId: layerId, PropertyId: propertyId, Params: params}, true
}

func lowerLayerWait(sink *diag.Sink[hir.Location], ctx *LowerCtx, instr hir.InstrId) (scenario.Instruction, bool) {
	r := newArgReader(sink, ctx, instr)
	layerId := r.number("layer_id")
	waitProperties := r.numberList("wait_properties")
	if !r.finish() {
		return nil, false
	}
	return scenario.LayerWait{LayerId: layerId, WaitProperties: waitProperties}, true
}

func lowerTransSet(sink *diag.Sink[hir.Location], ctx *LowerCtx, instr hir.InstrId) (scenario.Instruction, bool) {
	r := newArgReader(sink, ctx, instr)
	arg1 := r.number("arg1")
	arg2 := r.number("arg2")
	arg3 := r.number("arg3")
	params := r.bitmaskArray("params")
	if !r.finish() {
		return nil, false
	}
	return scenario.TransSet{Arg1: arg1, Arg2: arg2, Arg3: arg3, Params: params}, true
}

func lowerTipsGet(sink *diag.Sink[hir.Location], ctx *LowerCtx, instr hir.InstrId) (scenario.Instruction, bool) {
	r := newArgReader(sink, ctx, instr)
	tipIds := r.numberList("tip_ids")
	if !r.finish() {
		return nil, false
	}
	return scenario.TipsGet{TipIds: tipIds}, true
}

func lowerQuiz(sink *diag.Sink[hir.Location], ctx *LowerCtx, instr hir.InstrId) (scenario.Instruction, bool) {
	r := newArgReader(sink, ctx, instr)
	dest := r.register("dest")
	arg := r.number("arg")
	if !r.finish() {
		return nil, false
	}
	return scenario.Quiz{Dest: dest, Arg: arg}, true
}

func lowerDebugOut(sink *diag.Sink[hir.Location], ctx *LowerCtx, instr hir.InstrId) (scenario.Instruction, bool) {
	r := newArgReader(sink, ctx, instr)
	format := r.str("format")
	args := r.numberList("args")
	if !r.finish() {
		return nil, false
	}
	return scenario.DebugOut{Format: format, Args: args}, true
}
