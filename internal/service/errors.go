package service

import pkgerrors "clan-bingo/pkg/errors"

// ── 业务错误 ──
// 业务码按模块分段：2xxxx 队伍、3xxxx 棋盘、4xxxx 凭证、5xxxx 资料与管理员

var (
	ErrTeamNotFound      = pkgerrors.New(pkgerrors.KindNotFound, 20001, "队伍不存在")
	ErrJoinCodeNotFound  = pkgerrors.New(pkgerrors.KindNotFound, 20002, "邀请码无效")
	ErrTeamNameRequired  = pkgerrors.New(pkgerrors.KindInvalidInput, 20003, "队伍名称不能为空")
	ErrJoinCodeExhausted = pkgerrors.New(pkgerrors.KindConflict, 20004, "邀请码生成冲突，请重试")
	ErrJoinCodeRequired  = pkgerrors.New(pkgerrors.KindInvalidInput, 20005, "邀请码不能为空")
	ErrJoinCodeGenerate  = pkgerrors.New(pkgerrors.KindInternal, 20006, "邀请码生成失败")

	ErrSquareNotFound     = pkgerrors.New(pkgerrors.KindNotFound, 30001, "格子不存在")
	ErrBoardAlreadySeeded = pkgerrors.New(pkgerrors.KindConflict, 30002, "该队伍已有格子，不能重复初始化")
	ErrUnknownTemplate    = pkgerrors.New(pkgerrors.KindInvalidInput, 30003, "未知的棋盘模板")
	ErrInvalidRules       = pkgerrors.New(pkgerrors.KindInvalidInput, 30004, "规则必须是合法的 JSON 对象")

	ErrClaimNotFound       = pkgerrors.New(pkgerrors.KindNotFound, 40001, "凭证不存在")
	ErrClaimNotPending     = pkgerrors.New(pkgerrors.KindInvalidState, 40002, "凭证已审核，不能再次审核")
	ErrInvalidReviewStatus = pkgerrors.New(pkgerrors.KindInvalidInput, 40003, "审核结果只能是 approved 或 rejected")
	ErrInvalidImagePath    = pkgerrors.New(pkgerrors.KindInvalidInput, 40004, "凭证图片路径无效")
	ErrUnsupportedMedia    = pkgerrors.New(pkgerrors.KindInvalidInput, 40005, "只支持上传图片")
	ErrFileTooLarge        = pkgerrors.New(pkgerrors.KindInvalidInput, 40006, "文件过大")
	ErrProofStoreDisabled  = pkgerrors.New(pkgerrors.KindUnavailable, 40007, "对象存储未配置")
	ErrProofNotUploaded    = pkgerrors.New(pkgerrors.KindInvalidInput, 40008, "凭证图片不存在，请先上传")

	ErrRSNTooLong       = pkgerrors.New(pkgerrors.KindInvalidInput, 50001, "RSN 长度不能超过 64 个字符")
	ErrCannotRemoveSelf = pkgerrors.New(pkgerrors.KindConflict, 50002, "不能移除自己的管理员权限")
	ErrUserIDRequired   = pkgerrors.New(pkgerrors.KindInvalidInput, 50003, "用户 ID 不能为空")
	ErrProfileNotFound  = pkgerrors.New(pkgerrors.KindNotFound, 50004, "用户不存在")
)
