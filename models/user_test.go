package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeGrade(t *testing.T) {
	require.Equal(t, GradeGeneral, NormalizeGrade("GENERAL"))
	require.Equal(t, GradeBasic, NormalizeGrade("BASIC"))
	require.Equal(t, GradePro, NormalizeGrade("PRO"))

	require.Equal(t, GradeGeneral, NormalizeGrade(""))
	require.Equal(t, GradeGeneral, NormalizeGrade("pro"))
	require.Equal(t, GradeGeneral, NormalizeGrade("PLATINUM"))
}
