package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	pkgerrors "clan-bingo/pkg/errors"
)

func TestInterestService_Toggle_Involution(t *testing.T) {
	f := newFixture(t)
	_, board := f.boardWithMember(t)
	ctx := context.Background()
	id := board["S12"].ID

	for i, want := range []bool{true, false, true} {
		got, err := f.svc.Interest.Toggle(ctx, "u1", id)
		if err != nil {
			t.Fatalf("第 %d 次 Toggle 失败: %v", i+1, err)
		}
		if got.Interested != want {
			t.Errorf("第 %d 次期望 interested=%v，实际 %v", i+1, want, got.Interested)
		}
	}
	if len(f.store.interests) != 1 {
		t.Errorf("期望 1 条意向，实际 %d", len(f.store.interests))
	}
}

func TestInterestService_Toggle_ConcurrentNeverDuplicates(t *testing.T) {
	f := newFixture(t)
	_, board := f.boardWithMember(t)
	ctx := context.Background()
	id := board["S12"].ID

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.Interest.Toggle(ctx, "u1", id); err != nil {
				t.Errorf("Toggle 失败: %v", err)
			}
		}()
	}
	wg.Wait()

	// 偶数次切换后回到初始状态
	if len(f.store.interests) != 0 {
		t.Errorf("期望 0 条意向，实际 %d", len(f.store.interests))
	}
}

func TestInterestService_ListForSquare_Labels(t *testing.T) {
	f := newFixture(t)
	team, board := f.boardWithMember(t)
	f.join(t, "u2-abcdefgh", team.JoinCode)
	f.addProfile("u1", "Zezima")
	rsn := "Zezima99"
	p := f.store.profiles["u1"]
	p.RSN = &rsn
	f.store.profiles["u1"] = p
	ctx := context.Background()
	id := board["S12"].ID

	empty, err := f.svc.Interest.ListForSquare(ctx, "u1", id)
	if err != nil || len(empty.Users) != 0 {
		t.Fatalf("无意向时应返回空列表: %+v, %v", empty, err)
	}

	f.svc.Interest.Toggle(ctx, "u1", id)
	f.svc.Interest.Toggle(ctx, "u2-abcdefgh", id)

	got, err := f.svc.Interest.ListForSquare(ctx, "u1", id)
	if err != nil {
		t.Fatalf("ListForSquare 失败: %v", err)
	}
	if got.SquareID != id || len(got.Users) != 2 {
		t.Fatalf("意向列表不符: %+v", got)
	}
	if got.Users[0].Label != "Zezima (RSN: Zezima99)" {
		t.Errorf("展示名应附带 RSN，实际 %q", got.Users[0].Label)
	}
	if got.Users[1].Label != "User u2-abc" {
		t.Errorf("无资料时应回退为 ID 前缀，实际 %q", got.Users[1].Label)
	}
}

func TestInterestService_Access(t *testing.T) {
	f := newFixture(t)
	team, board := f.boardWithMember(t)
	ctx := context.Background()

	if _, err := f.svc.Interest.Toggle(ctx, "stranger", board["S01"].ID); !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Errorf("非成员应 Forbidden，实际: %v", err)
	}
	if _, err := f.svc.Interest.ListForTeam(ctx, "stranger", team.ID); !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Errorf("非成员应 Forbidden，实际: %v", err)
	}
	if _, err := f.svc.Interest.Toggle(ctx, "u1", "missing"); !errors.Is(err, ErrSquareNotFound) {
		t.Errorf("格子不存在应 NotFound，实际: %v", err)
	}
	if _, err := f.svc.Interest.Toggle(ctx, "", board["S01"].ID); !errors.Is(err, pkgerrors.ErrUnauthenticated) {
		t.Errorf("未认证应拒绝，实际: %v", err)
	}
}

func TestInterestService_ListForTeam_GroupsBySquare(t *testing.T) {
	f := newFixture(t)
	team, board := f.boardWithMember(t)
	f.join(t, "u2", team.JoinCode)
	ctx := context.Background()

	f.svc.Interest.Toggle(ctx, "u1", board["S01"].ID)
	f.svc.Interest.Toggle(ctx, "u2", board["S01"].ID)
	f.svc.Interest.Toggle(ctx, "u2", board["S05"].ID)

	// 其他队伍的意向不应出现
	other := f.createTeam(t, "Bronze Age")
	f.join(t, "u3", other.JoinCode)
	otherBoard := f.seedBoard(t, other.ID)
	f.svc.Interest.Toggle(ctx, "u3", otherBoard["S01"].ID)

	groups, err := f.svc.Interest.ListForTeam(ctx, "u1", team.ID)
	if err != nil {
		t.Fatalf("ListForTeam 失败: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("期望 2 个格子有意向，实际 %d", len(groups))
	}
	counts := map[string]int{}
	for _, g := range groups {
		counts[g.SquareID] = len(g.Users)
	}
	if counts[board["S01"].ID] != 2 || counts[board["S05"].ID] != 1 {
		t.Errorf("分组结果不符: %v", counts)
	}
}
