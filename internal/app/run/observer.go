package run

import (
	"github.com/John-Robertt/fa2png/internal/config"
	"github.com/John-Robertt/fa2png/internal/domain"
)

// Observer 用于把“运行进度/阶段结果”从转换流程中解耦出来。
//
// 约束：
// - run 包只负责发事件，不做任何输出
// - 事件严格按顺序、在同一个 goroutine 中发出（整个流程是串行的）
type Observer interface {
	// OnStart 在清理输出目录之前调用（用于打印路径与 target 列表）。
	OnStart(eff config.EffectiveConfig)
	// OnOutputReset 在旧输出目录被删除并重建后调用；首次运行（目录不存在）不调用。
	OnOutputReset(outRoot string)
	// OnItem 在每个文件开始转换前调用；current 从 1 开始，每个 (style, target) 循环重置。
	OnItem(style domain.Style, t domain.Target, current, total int, name string)
	// OnTargetDone 在一个 (style, target) 循环全部完成后调用。
	OnTargetDone(res domain.StyleTargetResult)
	// OnFinish 在全部风格目录处理完成后调用（失败时不调用）。
	OnFinish(rr domain.RunReport)
}

type nopObserver struct{}

func (nopObserver) OnStart(config.EffectiveConfig) {}
func (nopObserver) OnOutputReset(string) {}
func (nopObserver) OnItem(domain.Style, domain.Target, int, int, string) {}
func (nopObserver) OnTargetDone(domain.StyleTargetResult) {}
func (nopObserver) OnFinish(domain.RunReport) {}
