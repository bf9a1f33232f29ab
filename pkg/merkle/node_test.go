package merkle_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/mentor/pkg/llm"
	"github.com/papercomputeco/mentor/pkg/merkle"
)

func message(role llm.Role, content string) merkle.Bucket {
	return merkle.Bucket{Type: "message", Role: role, Mode: "critical_thinking", Content: content}
}

var _ = Describe("Node", func() {
	Describe("NewNode", func() {
		Context("when creating a root node (no parent)", func() {
			It("keeps the given bucket", func() {
				b := message(llm.RoleUser, "hello world")
				node := merkle.NewNode(b, nil)

				Expect(node.Bucket).To(Equal(b))
			})

			It("sets ParentHash to nil for root nodes", func() {
				node := merkle.NewNode(message(llm.RoleUser, "test"), nil)

				Expect(node.ParentHash).To(BeNil())
			})

			It("produces consistent hashes for the same bucket", func() {
				node1 := merkle.NewNode(message(llm.RoleUser, "same"), nil)
				node2 := merkle.NewNode(message(llm.RoleUser, "same"), nil)

				Expect(node1.Hash).To(Equal(node2.Hash))
			})

			It("produces different hashes for different content, role or mode", func() {
				base := merkle.NewNode(message(llm.RoleUser, "A"), nil)
				otherContent := merkle.NewNode(message(llm.RoleUser, "B"), nil)
				otherRole := merkle.NewNode(message(llm.RoleMentor, "A"), nil)
				otherMode := merkle.NewNode(merkle.Bucket{Type: "message", Role: llm.RoleUser, Mode: "solution", Content: "A"}, nil)

				Expect(base.Hash).NotTo(Equal(otherContent.Hash))
				Expect(base.Hash).NotTo(Equal(otherRole.Hash))
				Expect(base.Hash).NotTo(Equal(otherMode.Hash))
			})
		})

		Context("when creating a child node (with parent)", func() {
			var parent *merkle.Node

			BeforeEach(func() {
				parent = merkle.NewNode(message(llm.RoleUser, "parent"), nil)
			})

			It("links the child to the parent via ParentHash", func() {
				child := merkle.NewNode(message(llm.RoleMentor, "child"), parent)

				Expect(child.ParentHash).NotTo(BeNil())
				Expect(*child.ParentHash).To(Equal(parent.Hash))
			})

			It("creates a chain of nodes", func() {
				child1 := merkle.NewNode(message(llm.RoleMentor, "1"), parent)
				child2 := merkle.NewNode(message(llm.RoleUser, "2"), child1)

				Expect(*child1.ParentHash).To(Equal(parent.Hash))
				Expect(*child2.ParentHash).To(Equal(child1.Hash))
			})

			It("produces different hashes for same bucket with different parents", func() {
				parent2 := merkle.NewNode(message(llm.RoleUser, "different parent"), nil)
				child1 := merkle.NewNode(message(llm.RoleMentor, "same"), parent)
				child2 := merkle.NewNode(message(llm.RoleMentor, "same"), parent2)

				Expect(child1.Hash).NotTo(Equal(child2.Hash))
			})
		})
	})

	Describe("Verify", func() {
		It("accepts an untouched node", func() {
			parent := merkle.NewNode(message(llm.RoleUser, "hi"), nil)
			child := merkle.NewNode(message(llm.RoleMentor, "hello"), parent)

			Expect(parent.Verify()).To(BeTrue())
			Expect(child.Verify()).To(BeTrue())
		})

		It("rejects a node whose content was changed", func() {
			node := merkle.NewNode(message(llm.RoleUser, "hi"), nil)
			node.Bucket.Content = "tampered"

			Expect(node.Verify()).To(BeFalse())
		})

		It("rejects a node whose parent was changed", func() {
			node := merkle.NewNode(message(llm.RoleUser, "hi"), nil)
			other := "abc"
			node.ParentHash = &other

			Expect(node.Verify()).To(BeFalse())
		})
	})

	Describe("Hash computation", func() {
		It("produces a valid SHA-256 hex string (64 characters)", func() {
			node := merkle.NewNode(message(llm.RoleUser, "test"), nil)

			Expect(node.Hash).To(MatchRegexp("^[a-f0-9]{64}$"))
		})
	})
})
