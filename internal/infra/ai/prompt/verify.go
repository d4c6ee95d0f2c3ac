package prompt

// VerifyPrompt is the fixed instruction sent with every verification
// request. It demands a single JSON object matching the RemoteVerdict wire
// shape and no markdown fencing; models still fence occasionally, which the
// parser tolerates.
const VerifyPrompt = `วิเคราะห์ภาพนี้และประเมินว่าเป็นภาพที่สร้างขึ้นโดย AI หรือไม่ โดยพิจารณาจากร่องรอยที่มักพบในภาพจากโมเดล generative เช่น รายละเอียดที่ผิดธรรมชาติ นิ้วมือหรือฟันที่ผิดรูป แสงเงาที่ไม่สอดคล้องกัน พื้นผิวที่เนียนผิดปกติ ตัวอักษรที่อ่านไม่ออก และลวดลายพื้นหลังที่ซ้ำหรือเบลอแปลก ๆ

ตอบกลับเป็น JSON object เพียงอันเดียวตามโครงสร้างนี้เท่านั้น:
{"isAIGenerated": true หรือ false, "confidence": ตัวเลข 0-100, "reasoning": "คำอธิบายเหตุผลโดยย่อ", "visualIndicators": ["รายการสิ่งที่สังเกตเห็นในภาพ"]}

ห้ามใส่ markdown code fence ห้ามใส่ข้อความอื่นใดนอกเหนือจาก JSON`
