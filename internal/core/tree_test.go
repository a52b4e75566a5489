package core

import (
	"testing"

	"github.com/ahnaineh/GITGAME/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestMergeTrees(t *testing.T) {
	base := models.Tree{"same.txt": "x", "ours.txt": "x", "theirs.txt": "x", "both.txt": "x", "gone.txt": "x", "empty.txt": ""}
	ours := models.Tree{"same.txt": "x", "ours.txt": "ours", "theirs.txt": "x", "both.txt": "ours", "empty.txt": "", "new.txt": "n"}
	theirs := models.Tree{"same.txt": "x", "ours.txt": "x", "theirs.txt": "theirs", "both.txt": "theirs", "new.txt": "n"}

	result := MergeTrees(base, ours, theirs, "feature")

	assert.Equal(t, "x", result.Tree["same.txt"])
	assert.Equal(t, "ours", result.Tree["ours.txt"])
	assert.Equal(t, "theirs", result.Tree["theirs.txt"])
	assert.Equal(t, "n", result.Tree["new.txt"])
	assert.False(t, result.Tree.Has("gone.txt"), "deleted on both sides")
	assert.False(t, result.Tree.Has("empty.txt"), "empty content kept by ours but deleted by theirs")

	assert.Len(t, result.Conflicts, 1)
	c := result.Conflicts["both.txt"]
	assert.Equal(t, models.StringPtr("x"), c.Base)
	assert.Equal(t, models.StringPtr("ours"), c.Ours)
	assert.Equal(t, models.StringPtr("theirs"), c.Theirs)
	assert.Equal(t, "<<<<<<< HEAD\nours\n=======\ntheirs\n>>>>>>> feature", result.Tree["both.txt"])
}

func TestMergeTrees_ConflictTypes(t *testing.T) {
	base := models.Tree{"dm.txt": "x", "md.txt": "x"}
	ours := models.Tree{"md.txt": "ours", "aa.txt": "ours"}
	theirs := models.Tree{"dm.txt": "theirs", "aa.txt": "theirs"}

	result := MergeTrees(base, ours, theirs, "topic")

	assert.Equal(t, models.ConflictDeleteModify, result.Conflicts["dm.txt"].Type())
	assert.Nil(t, result.Conflicts["dm.txt"].Ours)
	assert.Equal(t, models.ConflictModifyDelete, result.Conflicts["md.txt"].Type())
	assert.Equal(t, models.ConflictAddAdd, result.Conflicts["aa.txt"].Type())
	assert.Nil(t, result.Conflicts["aa.txt"].Base)

	// An absent side renders as an empty section
	assert.Equal(t, "<<<<<<< HEAD\n\n=======\ntheirs\n>>>>>>> topic", result.Tree["dm.txt"])
}

func TestMergeTrees_IdenticalChangesNeverConflict(t *testing.T) {
	base := models.Tree{"a.txt": "1", "b.txt": "1"}
	same := models.Tree{"a.txt": "2", "c.txt": "3"}

	result := MergeTrees(base, same, same.Clone(), "feature")

	assert.False(t, result.HasConflicts())
	assert.True(t, same.Equal(result.Tree))
}

func TestMergeTrees_DoesNotMutateInputs(t *testing.T) {
	ours := models.Tree{"a.txt": "ours"}
	MergeTrees(models.Tree{"a.txt": "base"}, ours, models.Tree{"a.txt": "theirs"}, "feature")
	assert.Equal(t, models.Tree{"a.txt": "ours"}, ours)
}

func TestApplyTreeDiff(t *testing.T) {
	base := models.Tree{"keep.txt": "k", "edit.txt": "old", "drop.txt": "d"}
	target := models.Tree{"keep.txt": "k", "edit.txt": "new", "add.txt": "a"}
	current := models.Tree{"keep.txt": "local", "edit.txt": "old", "drop.txt": "d", "other.txt": "o"}

	forward := ApplyTreeDiff(current, base, target, false)
	assert.Equal(t, models.Tree{"keep.txt": "local", "edit.txt": "new", "add.txt": "a", "other.txt": "o"}, forward)

	reverse := ApplyTreeDiff(forward, base, target, true)
	assert.Equal(t, models.Tree{"keep.txt": "local", "edit.txt": "old", "drop.txt": "d", "other.txt": "o"}, reverse)

	assert.Equal(t, models.Tree{"keep.txt": "local", "edit.txt": "old", "drop.txt": "d", "other.txt": "o"}, current)
}

func TestApplyTreeDiff_AbsentDiffersFromEmpty(t *testing.T) {
	base := models.Tree{}
	target := models.Tree{"empty.txt": ""}

	assert.Equal(t, models.Tree{"empty.txt": ""}, ApplyTreeDiff(models.Tree{}, base, target, false))
	assert.Equal(t, models.Tree{}, ApplyTreeDiff(models.Tree{"empty.txt": ""}, base, target, true))
}
