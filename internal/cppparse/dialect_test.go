package cppparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdrscan/pkg/cppast"
)

const actorHeader = `#pragma once

#include "GameFramework/Actor.h"

UCLASS(Blueprintable)
class ENGINE_API AMyActor : public AActor {
	GENERATED_BODY()

public:
	AMyActor();

	UFUNCTION(BlueprintCallable, Category="Movement")
	void Jump();

	UPROPERTY(EditAnywhere, Category="Movement")
	float Speed = 600;
};
`

func TestDialect_UnrealActor(t *testing.T) {
	h, err := ParseHeader(actorHeader, Unreal())
	require.NoError(t, err)

	require.Len(t, h.Classes, 1)
	c := h.Classes[0]
	assert.Equal(t, "AMyActor", c.Name)
	assert.Equal(t, "ENGINE_API", c.API)
	assert.Equal(t, "UCLASS(Blueprintable)", c.Annotation)
	require.Len(t, c.Parents, 1)
	assert.Equal(t, cppast.NewPath("AActor"), c.Parents[0].Type)

	pub := c.Methods[cppast.AccessPublic]
	require.Len(t, pub, 2)
	assert.Equal(t, "AMyActor", pub[0].Name)
	assert.Equal(t, "Jump", pub[1].Name)
	assert.Equal(t, `UFUNCTION(BlueprintCallable, Category="Movement")`, pub[1].Annotation)

	members := c.Members[cppast.AccessPublic]
	require.Len(t, members, 1)
	assert.Equal(t, "Speed", members[0].Name)
	assert.Equal(t, `UPROPERTY(EditAnywhere, Category="Movement")`, members[0].Annotation)
	assert.Equal(t, cppast.NewPath("600"), members[0].Default)
}

func TestDialect_GeneratedBodyVariants(t *testing.T) {
	for _, marker := range []string{"GENERATED_BODY()", "GENERATED_UCLASS_BODY()", "GENERATED_BODY();"} {
		src := "UCLASS()\nclass AThing : public AActor {\n\t" + marker + "\n};\n"
		h, err := ParseHeader(src, Unreal())
		require.NoError(t, err, marker)
		require.Len(t, h.Classes, 1, marker)
		assert.Equal(t, 0, h.Classes[0].MethodCount(), marker)
	}
}

func TestDialect_KeepsFirstAnnotation(t *testing.T) {
	src := `class AThing {
public:
	UPROPERTY(EditAnywhere)
	UPROPERTY(VisibleAnywhere)
	int Value;
};`
	h, err := ParseHeader(src, Unreal())
	require.NoError(t, err)

	members := h.Classes[0].Members[cppast.AccessPublic]
	require.Len(t, members, 1)
	assert.Equal(t, "UPROPERTY(EditAnywhere)", members[0].Annotation)
}

func TestDialect_PlainTreatsMacrosAsCode(t *testing.T) {
	// Without the dialect, GENERATED_BODY() is not a marker; the class body
	// fails to parse rather than silently skipping it.
	src := "class AThing {\n\tGENERATED_BODY()\n\tint x;\n};\n"
	_, err := ParseHeader(src, Plain())
	assert.Error(t, err)
}

func TestDialect_AnnotationWithoutArguments(t *testing.T) {
	h, err := ParseHeader("UCLASS()\nclass AThing {\nGENERATED_BODY()\n};\n", Unreal())
	require.NoError(t, err)
	assert.Equal(t, "UCLASS()", h.Classes[0].Annotation)
}
